package bundle

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
	"github.com/PolarWolf314/frontcrypt/internal/secrets"
)

// Params are the only values substituted into the templates.
type Params struct {
	SaltBase64  string `json:"salt"`
	NonceBase64 string `json:"iv"`
	Iterations  int    `json:"iterations"`
}

// NewParams encodes the non-secret parts of a sealed payload.
func NewParams(sealed *secrets.Sealed) Params {
	return Params{
		SaltBase64:  base64.StdEncoding.EncodeToString(sealed.Salt),
		NonceBase64: base64.StdEncoding.EncodeToString(sealed.Nonce),
		Iterations:  secrets.Iterations,
	}
}

// Validate checks that salt and nonce are valid base64 of the expected
// lengths and that the iteration count is positive.
func (p Params) Validate() error {
	if _, err := p.Salt(); err != nil {
		return err
	}
	if _, err := p.Nonce(); err != nil {
		return err
	}
	if p.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d: %w", p.Iterations, ferrors.ErrInvalidParams)
	}
	return nil
}

// Salt decodes SaltBase64.
func (p Params) Salt() ([]byte, error) {
	return decodeField("salt", p.SaltBase64, secrets.SaltSize)
}

// Nonce decodes NonceBase64.
func (p Params) Nonce() ([]byte, error) {
	return decodeField("iv", p.NonceBase64, secrets.NonceSize)
}

func decodeField(name, value string, size int) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, ferrors.ErrInvalidParams)
	}
	if len(b) != size {
		return nil, fmt.Errorf("%s decodes to %d bytes, want %d: %w", name, len(b), size, ferrors.ErrInvalidParams)
	}
	return b, nil
}

var (
	paramsOpen  = []byte(`<script type="application/json" id="frontcrypt-params">`)
	paramsClose = []byte(`</script>`)
)

// ReadParams recovers the parameters embedded in a loader document.
func ReadParams(loaderHTML []byte) (Params, error) {
	var p Params
	start := bytes.Index(loaderHTML, paramsOpen)
	if start < 0 {
		return p, fmt.Errorf("loader has no parameter block: %w", ferrors.ErrInvalidParams)
	}
	rest := loaderHTML[start+len(paramsOpen):]
	end := bytes.Index(rest, paramsClose)
	if end < 0 {
		return p, fmt.Errorf("unterminated parameter block: %w", ferrors.ErrInvalidParams)
	}
	if err := json.Unmarshal(bytes.TrimSpace(rest[:end]), &p); err != nil {
		return p, fmt.Errorf("decoding parameter block: %v: %w", err, ferrors.ErrInvalidParams)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
