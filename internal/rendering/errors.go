// Package rendering writes completion reports as aligned text tables or JSON.
package rendering

import "fmt"

// RenderError represents a failure writing a report
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("render %s: %s", e.Format, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
