package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField    = errors.New("missing field")
	ErrInvalidPrice    = errors.New("price must be an integer between 1 and 100000")
	ErrFieldTooLong    = errors.New("field too long")
	ErrInvalidQuery    = errors.New("invalid query parameter")
	ErrMalformedBody   = errors.New("malformed request body")
	ErrDuplicateEmail  = errors.New("this e-mail address is already in use")
	ErrNoSuchAccount   = errors.New("no account at this e-mail address")
	ErrBadCredential   = errors.New("the password is incorrect")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAccountNotFound = errors.New("account not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrCacheMiss       = errors.New("cache miss")
)

func MissingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}

func FieldTooLong(name string, max int) error {
	return fmt.Errorf("%w: %s exceeds %d characters", ErrFieldTooLong, name, max)
}

// DependencyError marks a failure of the store, the image service or another
// collaborator. It is never retried.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *DependencyError) Unwrap() error { return e.Err }

func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DependencyError{Op: op, Err: err}
}

type ErrorKind int

const (
	KindDependency ErrorKind = iota
	KindValidation
	KindAuth
	KindConflict
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "dependency"
	}
}

// KindOf classifies err. Anything unrecognized is a dependency failure.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrFieldTooLong),
		errors.Is(err, ErrInvalidQuery),
		errors.Is(err, ErrMalformedBody):
		return KindValidation
	case errors.Is(err, ErrNoSuchAccount),
		errors.Is(err, ErrBadCredential),
		errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrDuplicateEmail):
		return KindConflict
	case errors.Is(err, ErrOfferNotFound), errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	default:
		return KindDependency
	}
}
