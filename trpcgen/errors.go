package trpcgen

import (
	"fmt"
	"strings"
)

// ErrorKind classifies run-level failures.
type ErrorKind string

const (
	KindNoRouterFiles   ErrorKind = "no_router_files"
	KindNoParsedFiles   ErrorKind = "no_parsed_files"
	KindNoRouters       ErrorKind = "no_routers"
	KindModuleNotFound  ErrorKind = "module_not_found"
	KindInvalidPackage  ErrorKind = "invalid_package_json"
	KindWriteFailed     ErrorKind = "write_failed"
	KindScanFailed      ErrorKind = "scan_failed"
	KindInvalidArgument ErrorKind = "invalid_argument"
)

// Error is a failure that stops a whole run.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    string

	// Suggestions are shown below the message as hints.
	Suggestions []string
	Err         error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Detail renders the message followed by its suggestions, one per line.
func (e *Error) Detail() string {
	if len(e.Suggestions) == 0 {
		return e.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	for _, s := range e.Suggestions {
		b.WriteString("\n  ")
		b.WriteString(s)
	}
	return b.String()
}
