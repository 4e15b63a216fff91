// Package output renders command results as JSON or as coloured text.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arjunmahishi/trpcgen/trpcgen"
)

// Writer handles structured output.
type Writer struct {
	encoder *json.Encoder
	compact bool
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{
		encoder: enc,
		compact: cfg.Compact,
	}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// ErrorBody is the JSON shape of a failed command.
type ErrorBody struct {
	Error       string   `json:"error"`
	Kind        string   `json:"kind,omitempty"`
	Path        string   `json:"path,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// NewErrorBody describes err, keeping the details of run errors.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var runErr *trpcgen.Error
	if errors.As(err, &runErr) {
		body.Kind = string(runErr.Kind)
		body.Path = runErr.Path
		body.Suggestions = runErr.Suggestions
	}
	return body
}

// WriteError writes an error as JSON to w, or to stderr when w is nil.
func WriteError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if encErr := enc.Encode(NewErrorBody(err)); encErr != nil {
		fmt.Fprintln(w, err)
	}
}
