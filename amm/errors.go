package amm

import "errors"

var (
	// ErrInvalidRate indicates a fee rate combination violates the config invariants.
	ErrInvalidRate = errors.New("amm: invalid fee rate")

	// ErrInvalidAccountData indicates serialized config data has the wrong size or discriminator.
	ErrInvalidAccountData = errors.New("amm: invalid account data")

	// ErrInvalidInstruction indicates instruction data cannot be decoded.
	ErrInvalidInstruction = errors.New("amm: invalid instruction data")

	// ErrInvalidParam indicates an update names an unknown parameter.
	ErrInvalidParam = errors.New("amm: invalid update parameter")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("amm: required parameter is nil")
)
