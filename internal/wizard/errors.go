package wizard

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps form fields to messages. Values echoes what the
// applicant entered.
type ValidationErrors struct {
	Fields map[string]string
	Values any
}

func (e *ValidationErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrRedirect sends the applicant back to an earlier step
type ErrRedirect struct {
	Location string
}

func (e *ErrRedirect) Error() string {
	return "redirect to " + e.Location
}

// ErrUpstream wraps a failure in the applications service
type ErrUpstream struct {
	Err    error
	Values any
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("upstream failure: %v", e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}
