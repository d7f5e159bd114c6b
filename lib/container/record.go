// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// ContentPath is the archive path of the content descriptor.
	ContentPath = "content.json"

	// MetaPath is the archive path of the user metadata record.
	MetaPath = "meta.json"

	// ModelVersion is the container data model version stamped into
	// new content descriptors.
	ModelVersion = "1.0.0"

	// TimestampFormat is the layout of the created and modified
	// fields. Timestamps are always UTC.
	TimestampFormat = "2006-01-02 15:04:05 UTC"
)

// Timestamp formats t in the layout used by content descriptors.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp parses a created or modified value.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(TimestampFormat, value)
}

// validateContent fills defaults into a content descriptor and checks
// its required fields, in place. now is the timestamp for created
// (when absent) and modified (when absent or the container is open).
func validateContent(content map[string]any, now time.Time) error {
	if id, present := content["uuid"]; !present || !truthy(id) {
		content["uuid"] = uuid.NewString()
	} else if _, ok := id.(string); !ok {
		return invalidField(ContentPath, "uuid")
	}

	if _, present := content["replaces"]; !present {
		content["replaces"] = nil
	}

	rawType, present := content["containerType"]
	if !present {
		return missingField(ContentPath, "containerType")
	}
	containerType, ok := rawType.(map[string]any)
	if !ok {
		return invalidField(ContentPath, "containerType")
	}
	if _, present := containerType["name"]; !present {
		return missingField(ContentPath, "containerType.name")
	}
	if _, hasID := containerType["id"]; hasID {
		if _, hasVersion := containerType["version"]; !hasVersion {
			return missingField(ContentPath, "containerType.version")
		}
	}

	static := false
	if value, present := content["static"]; present {
		static = truthy(value)
	}
	content["static"] = static

	complete := true
	if value, present := content["complete"]; present && !static {
		complete = truthy(value)
	}
	content["complete"] = complete

	stamp := Timestamp(now)
	if value, present := content["created"]; !present || !truthy(value) {
		content["created"] = stamp
	}
	if _, present := content["modified"]; !present || !complete {
		content["modified"] = stamp
	}

	if value, present := content["hash"]; !present || !truthy(value) {
		content["hash"] = nil
	} else if _, ok := value.(string); !ok {
		return invalidField(ContentPath, "hash")
	}

	if value, present := content["usedSoftware"]; !present || !truthy(value) {
		content["usedSoftware"] = []any{}
	}
	software, ok := content["usedSoftware"].([]any)
	if !ok {
		return invalidField(ContentPath, "usedSoftware")
	}
	for index, entry := range software {
		field := fmt.Sprintf("usedSoftware[%d]", index)
		record, ok := entry.(map[string]any)
		if !ok {
			return invalidField(ContentPath, field)
		}
		if _, present := record["name"]; !present {
			return missingField(ContentPath, field+".name")
		}
		if _, present := record["version"]; !present {
			return missingField(ContentPath, field+".version")
		}
		if _, hasID := record["id"]; hasID {
			if _, hasType := record["idType"]; !hasType {
				return missingField(ContentPath, field+".idType")
			}
		}
	}

	if _, present := content["modelVersion"]; !present {
		content["modelVersion"] = ModelVersion
	}
	return nil
}

// validateMeta fills defaults into a user metadata record and checks
// that author and title are non-empty, in place.
func validateMeta(meta map[string]any, defaults Defaults) error {
	if value, present := meta["author"]; !present || value == nil || value == "" {
		meta["author"] = defaults.Author
	}
	if author, ok := meta["author"].(string); !ok {
		return invalidField(MetaPath, "author")
	} else if author == "" {
		return missingField(MetaPath, "author")
	}

	if _, present := meta["email"]; !present {
		meta["email"] = defaults.Email
	}
	if _, present := meta["comment"]; !present {
		meta["comment"] = ""
	}

	if _, present := meta["title"]; !present {
		meta["title"] = ""
	}
	if title, ok := meta["title"].(string); !ok {
		return invalidField(MetaPath, "title")
	} else if title == "" {
		return missingField(MetaPath, "title")
	}

	if _, present := meta["keywords"]; !present {
		meta["keywords"] = []any{}
	}
	if _, present := meta["description"]; !present {
		meta["description"] = ""
	}
	return nil
}

// truthy reports whether a generic JSON value counts as set: false,
// null, zero, the empty string, and empty arrays and objects do not.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case json.Number:
		number, err := typed.Float64()
		return err != nil || number != 0
	case float64:
		return typed != 0
	case int:
		return typed != 0
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		return true
	}
}
