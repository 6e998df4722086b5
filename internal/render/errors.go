package render

import (
	"fmt"
	"strings"
)

// UnknownTemplateError represents a template name the editor does not offer.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	names := make([]string, 0, len(templateNames))
	names = append(names, templateNames...)
	return fmt.Sprintf("unknown template %q (available: %s)", e.Name, strings.Join(names, ", "))
}

// RenderError represents a failure driving the editor session.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render failed: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
