package library

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned when an update or delete names an identifier
// that no record in the collection carries.
type NotFoundError struct {
	Kind Kind
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: record not found", e.Kind, e.ID)
}

// Code returns the machine-readable error code.
func (e *NotFoundError) Code() string {
	return "NOT_FOUND"
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	return fmt.Sprintf("No %s with id %d exists. Query the %ss field to list available records.", e.Kind, e.ID, e.Kind)
}
