package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownDomain signals a search domain that no built-in or extension handles.
	ErrUnknownDomain = errors.New("unknown search domain")
	// ErrHookFailed signals that an extension hook rejected the search.
	ErrHookFailed = errors.New("search hook failed")
)

// UnknownDomainError wraps ErrUnknownDomain with the requested domain name.
type UnknownDomainError struct {
	Domain string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownDomain.Error(), e.Domain)
}

func (e *UnknownDomainError) Unwrap() error { return ErrUnknownDomain }

// NewUnknownDomain creates an unknown domain error.
func NewUnknownDomain(name string) error {
	return &UnknownDomainError{Domain: name}
}
