// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// SoftwareName is the name recorded in a container's usedSoftware
// list for containers produced by the sdc command.
const SoftwareName = "sdc"

// SoftwareID and SoftwareIDType identify the project source for the
// usedSoftware entry.
const (
	SoftwareID     = "https://github.com/scidatacontainer/scidatacontainer"
	SoftwareIDType = "URL"
)

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Software returns the usedSoftware entry describing this build, in
// the generic JSON model used by container records.
func Software() map[string]any {
	return map[string]any{
		"name":    SoftwareName,
		"version": Version,
		"id":      SoftwareID,
		"idType":  SoftwareIDType,
	}
}
