package admin

import "errors"

var (
	// ErrUnauthorized indicates the caller is not the configured administrator.
	ErrUnauthorized = errors.New("admin: caller is not the administrator")

	// ErrNilParam indicates a required option or parameter is missing.
	ErrNilParam = errors.New("admin: required parameter is nil")

	// ErrUnknownInstruction indicates a signed request carries no admin instruction.
	ErrUnknownInstruction = errors.New("admin: unknown instruction")
)
