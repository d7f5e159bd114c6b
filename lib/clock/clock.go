// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the current time. Production code injects Real();
// tests inject Fake() with deterministic time control.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// OrReal returns c, or Real() when c is nil. Option structs use it to
// resolve an unset Clock field.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real()
	}
	return c
}
