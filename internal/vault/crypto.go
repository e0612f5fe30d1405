// Package vault seals payloads at rest for the file and SQLite item stores.
package vault

import (
	"crypto/rand"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/celerix-dev/celerix-keystore/internal/persist"
)

// SaltFile is the per-directory salt the device key is derived with.
const SaltFile = "keystore.salt"

const saltSize = 16

var (
	// ErrWrongKey is returned when the key is incorrect or the ciphertext has
	// been modified.
	ErrWrongKey = errors.New("vault: wrong key or tampered data")
	// ErrCiphertextTooShort is returned for input shorter than a nonce.
	ErrCiphertextTooShort = errors.New("vault: ciphertext too short")
	// ErrEmptyPassphrase is returned by DeriveKey for an empty passphrase.
	ErrEmptyPassphrase = errors.New("vault: empty passphrase")
)

// Params are the scrypt cost parameters.
type Params struct {
	N, R, P int
}

// DefaultParams are the scrypt tunables used by DeriveKey.
var DefaultParams = Params{N: 1 << 15, R: 8, P: 1}

// DeriveKey derives a 32-byte sealing key from passphrase and salt.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	return DeriveKeyWithParams(passphrase, salt, DefaultParams)
}

// DeriveKeyWithParams is DeriveKey with explicit cost parameters.
func DeriveKeyWithParams(passphrase string, salt []byte, p Params) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	key, err := scrypt.Key([]byte(passphrase), salt, p.N, p.R, p.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("vault: derive key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext with key and prepends the random nonce.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vault: nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(ciphertext, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrWrongKey
	}
	return plaintext, nil
}

// LoadOrCreateSalt returns the salt stored in dir, generating it on first use.
func LoadOrCreateSalt(dir string) ([]byte, error) {
	path := filepath.Join(dir, SaltFile)
	salt, err := persist.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vault: read salt: %w", err)
	}
	if salt != nil {
		if len(salt) != saltSize {
			return nil, fmt.Errorf("vault: salt file %s is corrupt", path)
		}
		return salt, nil
	}

	salt = make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("vault: generate salt: %w", err)
	}
	if err := persist.WriteFile(path, salt); err != nil {
		return nil, fmt.Errorf("vault: write salt: %w", err)
	}
	return salt, nil
}

// Sealer seals and opens payloads with a fixed key.
type Sealer struct {
	key []byte
}

// NewSealer derives the device key for dir from passphrase.
func NewSealer(dir, passphrase string) (*Sealer, error) {
	return NewSealerWithParams(dir, passphrase, DefaultParams)
}

// NewSealerWithParams is NewSealer with explicit scrypt parameters.
func NewSealerWithParams(dir, passphrase string, p Params) (*Sealer, error) {
	salt, err := LoadOrCreateSalt(dir)
	if err != nil {
		return nil, err
	}
	key, err := DeriveKeyWithParams(passphrase, salt, p)
	if err != nil {
		return nil, err
	}
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext. A nil Sealer returns plaintext unchanged.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if s == nil {
		return plaintext, nil
	}
	return Seal(plaintext, s.key)
}

// Open decrypts ciphertext. A nil Sealer returns it unchanged.
func (s *Sealer) Open(ciphertext []byte) ([]byte, error) {
	if s == nil {
		return ciphertext, nil
	}
	return Open(ciphertext, s.key)
}
