// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Container validation stamps the created and modified timestamps of
// the content descriptor, and the local container repository records
// when each archive was stored. Both accept a Clock instead of calling
// time.Now directly so tests can pin and advance time explicitly.
//
// In production, Real() provides the standard library behavior. In
// tests, Fake() provides a clock that only moves when Advance or Set
// is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	record, _ := container.New(items, container.Options{Clock: c})
//	c.Advance(3 * time.Second)
//
// This package has no module-internal dependencies.
package clock
