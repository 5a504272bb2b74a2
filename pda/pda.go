// Package pda derives the deterministic addresses of config accounts.
//
// An address is the first SHA256(seeds || bump || program_id || marker) that
// does not lie on the ed25519 curve, searching bump from 255 downward, so no
// private key exists for it and only the owning program can sign for it:
//
//	address, bump = FindProgramAddress(["amm_config", be16(index)], program_id)
package pda

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/bitfsorg/libgamma-go/amm"
)

var (
	// ErrAddressSpaceExhausted indicates no bump in [0, 255] yields an off-curve address.
	ErrAddressSpaceExhausted = errors.New("pda: no viable bump seed found")

	// ErrAddressMismatch indicates a stored bump does not reproduce the expected address.
	ErrAddressMismatch = errors.New("pda: address does not match seeds")
)

// findProgramAddress is swapped out in tests to exercise search failure.
var findProgramAddress = solana.FindProgramAddress

// AmmConfigSeeds returns the seeds of the config at index: the namespace tag
// followed by the index as big-endian 16-bit bytes.
func AmmConfigSeeds(index uint16) [][]byte {
	idx := make([]byte, 2)
	binary.BigEndian.PutUint16(idx, index)
	return [][]byte{[]byte(amm.AmmConfigSeed), idx}
}

// DeriveAmmConfigAddress returns the address and bump of the config at index
// under programID. The result depends only on its inputs.
func DeriveAmmConfigAddress(programID solana.PublicKey, index uint16) (solana.PublicKey, uint8, error) {
	addr, bump, err := findProgramAddress(AmmConfigSeeds(index), programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: index %d: %w", ErrAddressSpaceExhausted, index, err)
	}
	return addr, bump, nil
}

// VerifyAmmConfigAddress checks that bump and index reproduce addr under programID.
// It is the cheap check a reader runs against a stored config's Bump.
func VerifyAmmConfigAddress(programID solana.PublicKey, index uint16, bump uint8, addr solana.PublicKey) error {
	seeds := append(AmmConfigSeeds(index), []byte{bump})
	got, err := solana.CreateProgramAddress(seeds, programID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAddressMismatch, err)
	}
	if !got.Equals(addr) {
		return fmt.Errorf("%w: index %d bump %d derives %s, not %s", ErrAddressMismatch, index, bump, got, addr)
	}
	return nil
}
