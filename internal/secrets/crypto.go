package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

// Parameters shared by the build and the browser runtime. They must match
// exactly or decryption always fails.
const (
	// Iterations is the PBKDF2-SHA256 round count.
	Iterations = 310000

	SaltSize  = 16
	NonceSize = 12
	KeySize   = 32
	TagSize   = 16
)

// randReader is swapped in tests to simulate entropy failures.
var randReader io.Reader = rand.Reader

// Sealed is the output of Seal. Ciphertext carries the authentication tag.
type Sealed struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// Seal encrypts plaintext under a key derived from password with a fresh
// salt and nonce.
func Seal(plaintext []byte, password string) (*Sealed, error) {
	if password == "" {
		return nil, ferrors.ErrEmptyPassword
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	aead, err := newAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	return &Sealed{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open reverses Seal. A tag that does not verify yields ErrAuthentication.
func Open(ciphertext []byte, password string, salt, nonce []byte) ([]byte, error) {
	if password == "" {
		return nil, ferrors.ErrEmptyPassword
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt is %d bytes, want %d: %w", len(salt), SaltSize, ferrors.ErrInvalidFormat)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce is %d bytes, want %d: %w", len(nonce), NonceSize, ferrors.ErrInvalidFormat)
	}
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("ciphertext is %d bytes, shorter than the tag: %w", len(ciphertext), ferrors.ErrInvalidFormat)
	}

	aead, err := newAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ferrors.ErrAuthentication
	}
	return plaintext, nil
}

// DeriveKey stretches password and salt into a KeySize key. Callers own the
// returned slice and should zero it when done.
func DeriveKey(password string, salt []byte) []byte {
	pw := []byte(password)
	defer wipe(pw)
	return pbkdf2.Key(pw, salt, Iterations, KeySize, sha256.New)
}

// newAEAD builds the AES-256-GCM cipher. The derived key is wiped once the
// cipher has expanded its schedule.
func newAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := DeriveKey(password, salt)
	defer wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}
	return aead, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
