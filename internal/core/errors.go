package core

import (
	"errors"
	"fmt"
)

// Error taxonomy of the core. Every operation returns one of these
// sentinels (usually wrapped with detail); nothing in the core is
// fatal to the process. Callers match with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal error")
)

func notFound(kind, detail string) error {
	if detail == "" {
		return fmt.Errorf("%w: %s", ErrNotFound, kind)
	}
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, detail)
}

func badRequest(detail string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, detail)
}

func internal(detail string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, detail, err)
}
