// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package itemcodec

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// JSONSuffix is the suffix of the mandatory container records. Its
// binding to [JSON] cannot be changed.
const JSONSuffix = "json"

var (
	// ErrImmutableSuffix is returned when a registration tries to
	// rebind the json suffix.
	ErrImmutableSuffix = errors.New("itemcodec: suffix cannot be re-registered")

	// ErrInvalidCodec is returned when a registration supplies a nil
	// codec or a malformed suffix.
	ErrInvalidCodec = errors.New("itemcodec: invalid codec registration")

	// ErrUnknownSuffix is returned by Alias when the target suffix has
	// no codec.
	ErrUnknownSuffix = errors.New("itemcodec: unknown suffix")
)

var (
	jsonObjectType = reflect.TypeOf(map[string]any(nil))
	stringType     = reflect.TypeOf("")
	bytesType      = reflect.TypeOf([]byte(nil))
)

// Registry maps item suffixes to codecs, and in-memory value types to
// the suffix used when a value of that type needs a default codec.
// A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	bySuffix map[string]Codec
	byType   map[reflect.Type]string
}

// NewRegistry returns a registry loaded with the built-in codecs.
func NewRegistry() *Registry {
	registry := &Registry{
		bySuffix: make(map[string]Codec),
		byType:   make(map[reflect.Type]string),
	}
	registry.bySuffix[JSONSuffix] = JSON{}
	for _, suffix := range []string{"txt", "log", "pgm"} {
		registry.bySuffix[suffix] = Text{}
	}
	registry.bySuffix["bin"] = Raw{}
	registry.bySuffix["cbor"] = CBOR{}
	registry.bySuffix["yaml"] = YAML{}
	registry.bySuffix["yml"] = YAML{}

	registry.byType[jsonObjectType] = JSONSuffix
	registry.byType[stringType] = "txt"
	registry.byType[bytesType] = "bin"
	return registry
}

// Register binds suffix to codec, replacing any previous binding. When
// valueType is non-nil, values of that type default to this suffix in
// [Registry.ForValue].
//
// The json suffix is immutable. A valueType of map[string]any is
// always bound to json; a request to rebind it is ignored while the
// suffix binding itself still takes effect.
func (r *Registry) Register(suffix string, codec Codec, valueType reflect.Type) error {
	if err := checkSuffix(suffix); err != nil {
		return err
	}
	if codec == nil {
		return fmt.Errorf("%w: nil codec for suffix %q", ErrInvalidCodec, suffix)
	}
	if suffix == JSONSuffix {
		return fmt.Errorf("%w: %q", ErrImmutableSuffix, suffix)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySuffix[suffix] = codec
	if valueType != nil && valueType != jsonObjectType {
		r.byType[valueType] = suffix
	}
	return nil
}

// Alias binds suffix to the codec currently registered for known.
// Later changes to known do not propagate to the alias.
func (r *Registry) Alias(suffix, known string) error {
	if err := checkSuffix(suffix); err != nil {
		return err
	}
	if suffix == JSONSuffix {
		return fmt.Errorf("%w: %q", ErrImmutableSuffix, suffix)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	codec, ok := r.bySuffix[known]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSuffix, known)
	}
	r.bySuffix[suffix] = codec
	return nil
}

// Lookup returns the codec bound to suffix.
func (r *Registry) Lookup(suffix string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.bySuffix[suffix]
	return codec, ok
}

// Resolve returns the codec for an item path. Paths without a suffix,
// or with an unregistered one, resolve to [Raw] with known=false.
func (r *Registry) Resolve(path string) (codec Codec, known bool) {
	suffix := Suffix(path)
	if suffix == "" {
		return Raw{}, false
	}
	if codec, ok := r.Lookup(suffix); ok {
		return codec, true
	}
	return Raw{}, false
}

// ForValue returns the default suffix and codec for a value based on
// its dynamic type.
func (r *Registry) ForValue(value any) (suffix string, codec Codec, ok bool) {
	if value == nil {
		return "", nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	suffix, ok = r.byType[reflect.TypeOf(value)]
	if !ok {
		return "", nil, false
	}
	codec, ok = r.bySuffix[suffix]
	return suffix, codec, ok
}

// Suffixes returns the registered suffixes in sorted order.
func (r *Registry) Suffixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	suffixes := make([]string, 0, len(r.bySuffix))
	for suffix := range r.bySuffix {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

// Suffix returns the text after the last "." of the final path
// segment, or "" when that segment has no ".".
func Suffix(path string) string {
	base := path
	if index := strings.LastIndexByte(base, '/'); index >= 0 {
		base = base[index+1:]
	}
	index := strings.LastIndexByte(base, '.')
	if index < 0 {
		return ""
	}
	return base[index+1:]
}

func checkSuffix(suffix string) error {
	if suffix == "" {
		return fmt.Errorf("%w: empty suffix", ErrInvalidCodec)
	}
	if strings.ContainsAny(suffix, "./") {
		return fmt.Errorf("%w: suffix %q contains '.' or '/'", ErrInvalidCodec, suffix)
	}
	return nil
}
