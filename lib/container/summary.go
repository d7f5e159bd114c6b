// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a container by its lifecycle state.
type Kind int

const (
	OpenMultiStep Kind = iota
	ClosedMultiStep
	SingleStep
	Static
)

func (k Kind) String() string {
	switch k {
	case OpenMultiStep:
		return "Open Multi-Step Container"
	case ClosedMultiStep:
		return "Closed Multi-Step Container"
	case SingleStep:
		return "Single-Step Container"
	case Static:
		return "Static Container"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MultiStep reports whether the kind belongs to a multi-step
// container.
func (k Kind) MultiStep() bool {
	return k == OpenMultiStep || k == ClosedMultiStep
}

// Kind returns the lifecycle classification. A complete container
// whose created and modified timestamps are equal was written in a
// single step.
func (c *Container) Kind() Kind {
	content := c.content()
	switch {
	case c.static:
		return Static
	case !c.Complete():
		return OpenMultiStep
	case content["created"] == content["modified"]:
		return SingleStep
	default:
		return ClosedMultiStep
	}
}

// TypeLabel renders containerType as "name", or "name version (id)"
// for standardized types.
func (c *Container) TypeLabel() string {
	containerType, _ := c.content()["containerType"].(map[string]any)
	name := fmt.Sprint(containerType["name"])
	if id, ok := containerType["id"]; ok {
		return fmt.Sprintf("%s %v (%v)", name, containerType["version"], id)
	}
	return name
}

// String renders a short multi-line summary of the container.
func (c *Container) String() string {
	content := c.content()
	kind := c.Kind()

	var builder strings.Builder
	builder.WriteString(kind.String())
	line := func(label string, value any) {
		fmt.Fprintf(&builder, "\n  %-9s %v", label+":", value)
	}
	line("type", c.TypeLabel())
	line("uuid", c.UUID())
	if replaces := content["replaces"]; truthy(replaces) {
		line("replaces", replaces)
	}
	if sum := c.Hash(); sum != "" {
		line("hash", sum)
	}
	line("created", content["created"])
	if kind.MultiStep() {
		line("modified", content["modified"])
	}
	line("author", c.meta()["author"])
	return builder.String()
}

// MarshalJSON renders the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(k.String())), nil
}
