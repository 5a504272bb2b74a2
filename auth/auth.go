// Package auth proves that an admin request was issued by the holder of a key.
//
// A request is the raw instruction data signed with ed25519 over
// program_id || data, so a signature for one program cannot be replayed
// against another. Policy (who may do what) lives in package admin.
package auth

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/libgamma-go/amm"
)

var (
	// ErrInvalidSignature indicates the signature does not verify for the signer.
	ErrInvalidSignature = errors.New("auth: invalid signature")

	// ErrNilParam indicates a required parameter is nil or empty.
	ErrNilParam = errors.New("auth: required parameter is nil")
)

// SignedRequest is instruction data together with the signer's proof.
type SignedRequest struct {
	Signer    amm.Identity
	Data      []byte
	Signature solana.Signature
}

func message(programID solana.PublicKey, data []byte) []byte {
	msg := make([]byte, 0, len(programID)+len(data))
	msg = append(msg, programID[:]...)
	return append(msg, data...)
}

// Sign signs data for programID with key.
func Sign(key solana.PrivateKey, programID solana.PublicKey, data []byte) (*SignedRequest, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: key", ErrNilParam)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: data", ErrNilParam)
	}

	sig, err := key.Sign(message(programID, data))
	if err != nil {
		return nil, fmt.Errorf("auth: sign: %w", err)
	}
	return &SignedRequest{
		Signer:    key.PublicKey(),
		Data:      data,
		Signature: sig,
	}, nil
}

// Verify checks the signature against programID and returns the
// authenticated signer identity.
func (r *SignedRequest) Verify(programID solana.PublicKey) (amm.Identity, error) {
	if r == nil {
		return amm.Identity{}, fmt.Errorf("%w: request", ErrNilParam)
	}
	if len(r.Data) == 0 {
		return amm.Identity{}, fmt.Errorf("%w: data", ErrNilParam)
	}
	if !r.Signature.Verify(r.Signer, message(programID, r.Data)) {
		return amm.Identity{}, fmt.Errorf("%w: signer %s", ErrInvalidSignature, r.Signer)
	}
	return r.Signer, nil
}
