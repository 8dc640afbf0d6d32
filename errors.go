package main

import "errors"

var (
	// ErrUnauthenticated rejects cart mutations attempted without an active
	// session. The caller's state is left untouched.
	ErrUnauthenticated = errors.New("login required")

	// ErrInvalidQuantity rejects negative quantities. Zero is not invalid,
	// it means removal.
	ErrInvalidQuantity = errors.New("quantity must not be negative")

	ErrCatalogUnavailable = errors.New("catalog unavailable")

	ErrUserExists     = errors.New("user already exists")
	ErrBadCredentials = errors.New("wrong email or password")
)
