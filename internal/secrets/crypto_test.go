package secrets

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
)

func TestSealOpenRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
		password  string
	}{
		{"empty plaintext", []byte{}, "pw"},
		{"short text", []byte("hello world"), "correct horse battery staple"},
		{"binary", []byte{0, 1, 2, 3, 255, 254}, "ünïcødé-pässwörd"},
		{"multi block", bytes.Repeat([]byte("archive"), 10000), "p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := Seal(tt.plaintext, tt.password)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if len(sealed.Salt) != SaltSize || len(sealed.Nonce) != NonceSize {
				t.Fatalf("unexpected salt/nonce sizes %d/%d", len(sealed.Salt), len(sealed.Nonce))
			}
			if len(sealed.Ciphertext) != len(tt.plaintext)+TagSize {
				t.Fatalf("ciphertext length = %d, want %d", len(sealed.Ciphertext), len(tt.plaintext)+TagSize)
			}

			got, err := Open(sealed.Ciphertext, tt.password, sealed.Salt, sealed.Nonce)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(got, tt.plaintext) {
				t.Errorf("Open() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestOpenWrongPassword(t *testing.T) {
	sealed, err := Seal([]byte("secret site"), "right")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	got, err := Open(sealed.Ciphertext, "wrong", sealed.Salt, sealed.Nonce)
	if !errors.Is(err, ferrors.ErrAuthentication) {
		t.Fatalf("Open() error = %v, want ErrAuthentication", err)
	}
	if got != nil {
		t.Errorf("Open() returned plaintext %q on failure", got)
	}
}

func TestOpenTamperedCiphertext(t *testing.T) {
	sealed, err := Seal([]byte("secret site"), "pw")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	sealed.Ciphertext[0] ^= 0x01

	if _, err := Open(sealed.Ciphertext, "pw", sealed.Salt, sealed.Nonce); !errors.Is(err, ferrors.ErrAuthentication) {
		t.Fatalf("Open() error = %v, want ErrAuthentication", err)
	}
}

func TestOpenInvalidFormat(t *testing.T) {
	salt := make([]byte, SaltSize)
	nonce := make([]byte, NonceSize)
	ct := make([]byte, TagSize)

	tests := []struct {
		name  string
		ct    []byte
		salt  []byte
		nonce []byte
	}{
		{"short salt", ct, salt[:8], nonce},
		{"long nonce", ct, salt, append(nonce, 0)},
		{"ciphertext shorter than tag", ct[:TagSize-1], salt, nonce},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.ct, "pw", tt.salt, tt.nonce)
			if !errors.Is(err, ferrors.ErrInvalidFormat) {
				t.Fatalf("Open() error = %v, want ErrInvalidFormat", err)
			}
			if errors.Is(err, ferrors.ErrAuthentication) {
				t.Fatalf("format errors must not look like authentication failures")
			}
		})
	}
}

func TestEmptyPasswordRejected(t *testing.T) {
	if _, err := Seal([]byte("x"), ""); !errors.Is(err, ferrors.ErrEmptyPassword) {
		t.Errorf("Seal() error = %v, want ErrEmptyPassword", err)
	}
	if _, err := Open(make([]byte, TagSize), "", make([]byte, SaltSize), make([]byte, NonceSize)); !errors.Is(err, ferrors.ErrEmptyPassword) {
		t.Errorf("Open() error = %v, want ErrEmptyPassword", err)
	}
}

func TestSealUsesFreshSaltAndNonce(t *testing.T) {
	a, err := Seal([]byte("same"), "pw")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Seal([]byte("same"), "pw")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Salt, b.Salt) || bytes.Equal(a.Nonce, b.Nonce) {
		t.Error("salt and nonce must be regenerated per Seal")
	}
	if bytes.Equal(a.Ciphertext, b.Ciphertext) {
		t.Error("ciphertexts of two seals should differ")
	}
}

func TestSealRandomnessFailure(t *testing.T) {
	original := randReader
	randReader = strings.NewReader("short")
	defer func() { randReader = original }()

	if _, err := Seal([]byte("x"), "pw"); err == nil {
		t.Fatal("expected error when randomness is exhausted")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)
	a := DeriveKey("pw", salt)
	b := DeriveKey("pw", salt)
	if len(a) != KeySize {
		t.Fatalf("key length = %d, want %d", len(a), KeySize)
	}
	if !bytes.Equal(a, b) {
		t.Error("same password and salt must derive the same key")
	}
	if bytes.Equal(a, DeriveKey("pw2", salt)) {
		t.Error("different passwords must derive different keys")
	}
}
