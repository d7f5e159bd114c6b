// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoMarksDirtyBuilds(t *testing.T) {
	originalDirty := GitDirty
	defer func() { GitDirty = originalDirty }()

	GitDirty = "false"
	if strings.Contains(Info(), "-dirty") {
		t.Errorf("Info() = %q, should not be marked dirty", Info())
	}

	GitDirty = "true"
	if !strings.Contains(Info(), "-dirty") {
		t.Errorf("Info() = %q, want -dirty marker", Info())
	}
}

func TestFullIncludesInfo(t *testing.T) {
	if !strings.HasPrefix(Full(), Info()) {
		t.Errorf("Full() = %q, want prefix %q", Full(), Info())
	}
}

func TestSoftwareEntryHasRequiredFields(t *testing.T) {
	entry := Software()
	for _, field := range []string{"name", "version"} {
		if value, _ := entry[field].(string); value == "" {
			t.Errorf("Software()[%q] is empty", field)
		}
	}
	// An id requires an idType.
	if _, hasID := entry["id"]; hasID {
		if _, hasType := entry["idType"]; !hasType {
			t.Error("Software() has id but no idType")
		}
	}
}
