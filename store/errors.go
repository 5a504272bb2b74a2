package store

import "errors"

var (
	// ErrAlreadyInitialized indicates an account already occupies the address.
	ErrAlreadyInitialized = errors.New("store: account already initialized")

	// ErrNotInitialized indicates no account exists at the address.
	ErrNotInitialized = errors.New("store: account not initialized")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("store: required parameter is nil")

	// ErrConcurrentUpdate indicates the account changed while an update was in flight.
	ErrConcurrentUpdate = errors.New("store: concurrent update")
)
