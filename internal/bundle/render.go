package bundle

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/PolarWolf314/frontcrypt/internal/secrets"
)

// Output file names inside a bundle directory.
const (
	PayloadFile = "app.enc"
	LoaderFile  = "index.html"
	RuntimeFile = "sw.js"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("bundle").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl"))

// Artifacts is the complete content of a bundle directory.
type Artifacts struct {
	Payload    []byte
	LoaderHTML []byte
	RuntimeJS  []byte
}

// Assemble renders the bundle for a sealed payload.
func Assemble(sealed *secrets.Sealed) (*Artifacts, error) {
	params := NewParams(sealed)
	loader, err := RenderLoader(params)
	if err != nil {
		return nil, err
	}
	runtime, err := RenderRuntime(params)
	if err != nil {
		return nil, err
	}
	return &Artifacts{
		Payload:    sealed.Ciphertext,
		LoaderHTML: loader,
		RuntimeJS:  runtime,
	}, nil
}

// RenderLoader renders index.html for p.
func RenderLoader(p Params) ([]byte, error) {
	return render("index.html.tmpl", p)
}

// RenderRuntime renders sw.js for p. Only the iteration count is substituted.
func RenderRuntime(p Params) ([]byte, error) {
	return render("sw.js.tmpl", p)
}

func render(name string, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, p); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
