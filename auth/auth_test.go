package auth

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libgamma-go/amm"
)

var programID = solana.MustPublicKeyFromBase58("GAMMA7meSFWaBXF25oSUgmGRwaW6sCMFLmBNiMSdbHVT")

func newKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

func TestSignVerify(t *testing.T) {
	key := newKey(t)
	data := amm.CreateAmmConfigArgs{Index: 1, TradeFeeRate: 2500}.Encode()

	req, err := Sign(key, programID, data)
	require.NoError(t, err)

	signer, err := req.Verify(programID)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), signer)
}

func TestVerify_Tampered(t *testing.T) {
	key := newKey(t)
	data := amm.CreateAmmConfigArgs{Index: 1, TradeFeeRate: 2500}.Encode()

	t.Run("data", func(t *testing.T) {
		req, err := Sign(key, programID, bytes.Clone(data))
		require.NoError(t, err)
		req.Data[len(req.Data)-1] ^= 1
		_, err = req.Verify(programID)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("signer", func(t *testing.T) {
		req, err := Sign(key, programID, data)
		require.NoError(t, err)
		req.Signer = newKey(t).PublicKey()
		_, err = req.Verify(programID)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("program", func(t *testing.T) {
		req, err := Sign(key, programID, data)
		require.NoError(t, err)
		_, err = req.Verify(solana.SystemProgramID)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestSign_Errors(t *testing.T) {
	_, err := Sign(nil, programID, []byte{1})
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = Sign(newKey(t), programID, nil)
	assert.ErrorIs(t, err, ErrNilParam)

	var req *SignedRequest
	_, err = req.Verify(programID)
	assert.ErrorIs(t, err, ErrNilParam)
}
