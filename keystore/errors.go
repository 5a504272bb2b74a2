package keystore

import "errors"

var (
	// ErrInvalidKey indicates the private key is empty or not an ed25519 key.
	ErrInvalidKey = errors.New("keystore: invalid private key")

	// ErrDecryptionFailed indicates wrong password or corrupted key data.
	ErrDecryptionFailed = errors.New("keystore: key decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates key checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("keystore: key checksum mismatch")

	// ErrKeyExists indicates Save would overwrite an existing key file.
	ErrKeyExists = errors.New("keystore: key file already exists")
)
