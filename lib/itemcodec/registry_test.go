// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package itemcodec

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestSuffix(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"content.json", "json"},
		{"data/readme.txt", "txt"},
		{"data/archive.tar.gz", "gz"},
		{"data.d/noext", ""},
		{"README", ""},
		{"data/trailing.", ""},
	}
	for _, test := range tests {
		if got := Suffix(test.path); got != test.want {
			t.Errorf("Suffix(%q) = %q, want %q", test.path, got, test.want)
		}
	}
}

func TestResolveBuiltins(t *testing.T) {
	registry := NewRegistry()
	tests := []struct {
		path string
		want string
	}{
		{"content.json", "json"},
		{"data/notes.txt", "text"},
		{"log/run.log", "text"},
		{"data/image.pgm", "text"},
		{"data/blob.bin", "raw"},
		{"data/values.cbor", "cbor"},
		{"data/settings.yaml", "yaml"},
		{"data/settings.yml", "yaml"},
	}
	for _, test := range tests {
		codec, known := registry.Resolve(test.path)
		if !known {
			t.Errorf("Resolve(%q): known = false, want true", test.path)
			continue
		}
		if codec.Name() != test.want {
			t.Errorf("Resolve(%q) = %s, want %s", test.path, codec.Name(), test.want)
		}
	}
}

func TestResolveUnknownFallsBackToRaw(t *testing.T) {
	registry := NewRegistry()
	for _, path := range []string{"data/x.unknown", "data/noext"} {
		codec, known := registry.Resolve(path)
		if known {
			t.Errorf("Resolve(%q): known = true, want false", path)
		}
		if codec.Name() != "raw" {
			t.Errorf("Resolve(%q) = %s, want raw", path, codec.Name())
		}
	}
}

func TestRegisterJSONIsImmutable(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register("json", Text{}, nil)
	if !errors.Is(err, ErrImmutableSuffix) {
		t.Fatalf("Register(json) error = %v, want ErrImmutableSuffix", err)
	}
	if err := registry.Alias("json", "txt"); !errors.Is(err, ErrImmutableSuffix) {
		t.Fatalf("Alias(json) error = %v, want ErrImmutableSuffix", err)
	}
	codec, _ := registry.Lookup("json")
	if codec.Name() != "json" {
		t.Errorf("json suffix bound to %s after rejected registration", codec.Name())
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	registry := NewRegistry()
	for _, suffix := range []string{"", "tar.gz", "a/b"} {
		if err := registry.Register(suffix, Raw{}, nil); !errors.Is(err, ErrInvalidCodec) {
			t.Errorf("Register(%q) error = %v, want ErrInvalidCodec", suffix, err)
		}
	}
	if err := registry.Register("dat", nil, nil); !errors.Is(err, ErrInvalidCodec) {
		t.Errorf("Register with nil codec error = %v, want ErrInvalidCodec", err)
	}
}

func TestRegisterNewSuffix(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("dat", Raw{}, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	codec, known := registry.Resolve("data/sample.dat")
	if !known || codec.Name() != "raw" {
		t.Errorf("Resolve(sample.dat) = %s, %v; want raw, true", codec.Name(), known)
	}
}

func TestRegisterValueTypeDefault(t *testing.T) {
	type pixels []uint16
	registry := NewRegistry()
	if err := registry.Register("px", CBOR{}, reflect.TypeOf(pixels(nil))); err != nil {
		t.Fatalf("Register: %v", err)
	}
	suffix, codec, ok := registry.ForValue(pixels{1, 2, 3})
	if !ok {
		t.Fatal("ForValue(pixels) found no default")
	}
	if suffix != "px" || codec.Name() != "cbor" {
		t.Errorf("ForValue(pixels) = %s/%s, want px/cbor", suffix, codec.Name())
	}
}

func TestRegisterCannotRebindJSONObjectType(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("dict", YAML{}, reflect.TypeOf(map[string]any(nil))); err != nil {
		t.Fatalf("Register: %v", err)
	}
	suffix, _, _ := registry.ForValue(map[string]any{"a": 1})
	if suffix != "json" {
		t.Errorf("ForValue(map) suffix = %q, want json", suffix)
	}
	if codec, ok := registry.Lookup("dict"); !ok || codec.Name() != "yaml" {
		t.Error("suffix binding for dict was not applied")
	}
}

func TestForValueBuiltinDefaults(t *testing.T) {
	registry := NewRegistry()
	tests := []struct {
		value any
		want  string
	}{
		{map[string]any{}, "json"},
		{"text", "txt"},
		{[]byte{1}, "bin"},
	}
	for _, test := range tests {
		suffix, _, ok := registry.ForValue(test.value)
		if !ok || suffix != test.want {
			t.Errorf("ForValue(%T) = %q, %v; want %q, true", test.value, suffix, ok, test.want)
		}
	}
	if _, _, ok := registry.ForValue(3.5); ok {
		t.Error("ForValue(float64) found a default, want none")
	}
	if _, _, ok := registry.ForValue(nil); ok {
		t.Error("ForValue(nil) found a default, want none")
	}
}

func TestAlias(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Alias("md", "txt"); err != nil {
		t.Fatalf("Alias: %v", err)
	}
	codec, known := registry.Resolve("README.md")
	if !known || codec.Name() != "text" {
		t.Errorf("Resolve(README.md) = %s, %v; want text, true", codec.Name(), known)
	}
	if err := registry.Alias("x", "nosuch"); !errors.Is(err, ErrUnknownSuffix) {
		t.Errorf("Alias to unknown error = %v, want ErrUnknownSuffix", err)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	first := NewRegistry()
	second := NewRegistry()
	if err := first.Alias("md", "txt"); err != nil {
		t.Fatalf("Alias: %v", err)
	}
	if _, ok := second.Lookup("md"); ok {
		t.Error("registration leaked between registries")
	}
}

func TestSuffixesSorted(t *testing.T) {
	got := strings.Join(NewRegistry().Suffixes(), ",")
	want := "bin,cbor,json,log,pgm,txt,yaml,yml"
	if got != want {
		t.Errorf("Suffixes() = %s, want %s", got, want)
	}
}
