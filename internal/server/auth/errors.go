package auth

import "errors"

var (
	// ErrAuthFailure is the only outcome callers see for bad signatures, expired or
	// malformed tokens, unknown subjects, unknown emails and wrong passwords.
	ErrAuthFailure = errors.New("could not validate credentials")

	// ErrDuplicateEmail indicates that the email is already registered
	ErrDuplicateEmail = errors.New("email already registered")
)
