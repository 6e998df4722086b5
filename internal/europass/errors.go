package europass

import "fmt"

// ImportError represents a failure to parse an external XML document.
// Malformed input fails the whole import; everything short of that degrades.
type ImportError struct {
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("xml import failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("xml import failed: %s", e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// ExportError represents a failure to generate an external XML document.
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("xml export failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("xml export failed: %s", e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
