package store

import "fmt"

// NotFoundError indicates that no resume exists under the given handle.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resume '%s' not found", e.ID)
}
