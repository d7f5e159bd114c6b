// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
)

type outputKey struct{}

// WithOutput returns a context whose commands write their primary
// output to w instead of stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// Output returns the writer for a command's primary output.
func Output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok {
		return w
	}
	return os.Stdout
}

// JSONOutput is an embeddable struct that adds --json output support to
// a command's params struct.
//
//	type showParams struct {
//	    cli.Settings
//	    cli.JSONOutput
//	}
//
//	// In Run:
//	if done, err := params.EmitJSON(ctx, summary); done {
//	    return err
//	}
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result as indented JSON if --json is set. Returns
// (false, nil) when --json is not set and the caller should proceed
// with text formatting. Nil slices are written as [].
func (j *JSONOutput) EmitJSON(ctx context.Context, result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(Output(ctx), normalizeNilSlice(result))
}

// WriteJSON marshals value as indented JSON and writes it to w.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}

func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}

// Printf formats to the command's output writer.
func Printf(ctx context.Context, format string, args ...any) {
	fmt.Fprintf(Output(ctx), format, args...)
}
