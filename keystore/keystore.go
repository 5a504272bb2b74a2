// Package keystore stores the administrator signing key encrypted at rest.
//
// File format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, key||checksum)
//
// The checksum is SHA256(key)[:4] for verifying correct decryption.
package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for key encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4

	// KeyLen is the size of an ed25519 private key (seed || public key).
	KeyLen = 64
)

// DefaultFileName is the key file name inside the data directory.
const DefaultFileName = "admin.key"

// Generate returns a fresh administrator key.
func Generate() (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("keystore: failed to generate key: %w", err)
	}
	return key, nil
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
}

// Encrypt encrypts key with Argon2id + AES-256-GCM.
func Encrypt(key solana.PrivateKey, password string) ([]byte, error) {
	if len(key) != KeyLen {
		return nil, ErrInvalidKey
	}

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keystore: failed to generate salt: %w", err)
	}

	sum := sha256.Sum256(key)
	plaintext := make([]byte, 0, KeyLen+ChecksumLen)
	plaintext = append(plaintext, key...)
	plaintext = append(plaintext, sum[:ChecksumLen]...)

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("keystore: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("keystore: failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, SaltLen+NonceLen+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Decrypt reverses Encrypt and checks that the result is a consistent
// ed25519 key.
func Decrypt(encrypted []byte, password string) (solana.PrivateKey, error) {
	if len(encrypted) < SaltLen+NonceLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}

	salt := encrypted[:SaltLen]
	nonce := encrypted[SaltLen : SaltLen+NonceLen]
	ciphertext := encrypted[SaltLen+NonceLen:]

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(plaintext) != KeyLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}

	key := plaintext[:KeyLen]
	sum := sha256.Sum256(key)
	if subtle.ConstantTimeCompare(sum[:ChecksumLen], plaintext[KeyLen:]) != 1 {
		return nil, ErrChecksumMismatch
	}

	if !bytes.Equal(ed25519.NewKeyFromSeed(key[:ed25519.SeedSize]), key) {
		return nil, fmt.Errorf("%w: public half does not match seed", ErrInvalidKey)
	}
	return solana.PrivateKey(key), nil
}

// Save encrypts key and writes it to path with owner-only permissions.
// An existing file is never overwritten.
func Save(path string, key solana.PrivateKey, password string) error {
	data, err := Encrypt(key, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("keystore: create key directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrKeyExists, path)
		}
		return fmt.Errorf("keystore: create key file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("keystore: write key file: %w", err)
	}
	return f.Close()
}

// Load reads and decrypts the key at path.
func Load(path, password string) (solana.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keystore: read key file: %w", err)
	}
	return Decrypt(data, password)
}
