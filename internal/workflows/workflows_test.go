package workflows

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PolarWolf314/frontcrypt/internal/archive"
	"github.com/PolarWolf314/frontcrypt/internal/audit"
	"github.com/PolarWolf314/frontcrypt/internal/bundle"
	"github.com/PolarWolf314/frontcrypt/internal/configs"
	ferrors "github.com/PolarWolf314/frontcrypt/internal/errors"
	"github.com/PolarWolf314/frontcrypt/internal/secrets"
)

func password(p string) secrets.PasswordOptions {
	return secrets.PasswordOptions{
		Explicit:    p,
		Getenv:      func(string) string { return "" },
		Interactive: func() bool { return false },
	}
}

func setupSite(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "site")
	files := map[string]string{
		"index.html":     "<h1>hi</h1>",
		"assets/app.js":  "console.log(1)",
		"assets/app.css": "body{}",
	}
	for name, content := range files {
		p := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return src
}

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "frontcrypt")
	original := configs.FrontcryptSettings
	configs.FrontcryptSettings = &configs.Settings{ConfigDir: dir}
	t.Cleanup(func() { configs.FrontcryptSettings = original })
	return dir
}

func TestBuildThenInspect(t *testing.T) {
	withConfigDir(t)
	src := setupSite(t)

	var seen []string
	result, err := Build(context.Background(), BuildOptions{
		Source:   src,
		Password: password("hunter2"),
		Audit:    true,
		OnEntry:  func(e archive.Entry) { seen = append(seen, e.Path) },
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if result.OutputDir != src+"-protected" {
		t.Errorf("Expected default output dir, got %s", result.OutputDir)
	}
	if result.Files != 3 || result.Dirs != 1 {
		t.Errorf("Expected 3 files and 1 dir, got %d and %d", result.Files, result.Dirs)
	}
	if len(seen) != 4 {
		t.Errorf("Expected observer to see 4 entries, got %v", seen)
	}
	wantPayload := result.ArchiveSize + secrets.TagSize
	if result.PayloadSize != wantPayload {
		t.Errorf("Expected payload size %d, got %d", wantPayload, result.PayloadSize)
	}
	for _, name := range []string{bundle.PayloadFile, bundle.LoaderFile, bundle.RuntimeFile} {
		if _, err := os.Stat(filepath.Join(result.OutputDir, name)); err != nil {
			t.Errorf("Expected %s in bundle: %v", name, err)
		}
	}

	inspected, err := Inspect(context.Background(), InspectOptions{
		BundleDir: result.OutputDir,
		Password:  password("hunter2"),
		Audit:     true,
	})
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	var paths []string
	for _, f := range inspected.Files {
		paths = append(paths, f.Path)
	}
	want := "/assets/app.css,/assets/app.js,/index.html"
	if got := strings.Join(paths, ","); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if inspected.Files[2].MIME != "text/html; charset=utf-8" || inspected.Files[2].Size != len("<h1>hi</h1>") {
		t.Errorf("Unexpected index.html entry: %+v", inspected.Files[2])
	}
	if inspected.Iterations != secrets.Iterations {
		t.Errorf("Expected %d iterations, got %d", secrets.Iterations, inspected.Iterations)
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Operation != audit.OpBuild || entries[1].Operation != audit.OpInspect {
		t.Fatalf("Unexpected audit entries: %+v", entries)
	}
	if entries[0].BundleID != result.BundleID || entries[0].FilesCount != 3 {
		t.Errorf("Unexpected build entry: %+v", entries[0])
	}
}

func TestInspectWrongPassword(t *testing.T) {
	src := setupSite(t)
	result, err := Build(context.Background(), BuildOptions{Source: src, Password: password("right")})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	_, err = Inspect(context.Background(), InspectOptions{BundleDir: result.OutputDir, Password: password("wrong")})
	if !errors.Is(err, ferrors.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}
}

func TestBuildInputErrors(t *testing.T) {
	src := setupSite(t)
	file := filepath.Join(src, "index.html")

	tests := []struct {
		name string
		opts BuildOptions
		want error
	}{
		{"missing source", BuildOptions{}, ferrors.ErrMissingSource},
		{"source is a file", BuildOptions{Source: file}, ferrors.ErrSourceNotDirectory},
		{"source does not exist", BuildOptions{Source: filepath.Join(src, "nope")}, ferrors.ErrSourceNotDirectory},
		{"output is source", BuildOptions{Source: src, Output: src}, ferrors.ErrOutputIsSource},
		{"output inside source", BuildOptions{Source: src, Output: filepath.Join(src, "out")}, ferrors.ErrOutputInsideSource},
		{"no password", BuildOptions{Source: src, Output: filepath.Join(t.TempDir(), "out")}, ferrors.ErrNoPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Password = password("")
			_, err := Build(context.Background(), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildRefusesNonEmptyOutputBeforePrompting(t *testing.T) {
	src := setupSite(t)
	out := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	prompted := false
	opts := password("")
	opts.Interactive = func() bool { return true }
	opts.Prompt = func(string) ([]byte, error) {
		prompted = true
		return []byte("pw"), nil
	}

	_, err := Build(context.Background(), BuildOptions{Source: src, Output: out, Password: opts})
	if !errors.Is(err, ferrors.ErrOutputNotEmpty) {
		t.Fatalf("Expected ErrOutputNotEmpty, got %v", err)
	}
	if prompted {
		t.Error("Password must not be requested when the output is unusable")
	}
	if _, err := os.Stat(filepath.Join(out, "keep.txt")); err != nil {
		t.Errorf("Existing file must be untouched: %v", err)
	}
}

func TestBuildForceNeverReplacesSourceAncestor(t *testing.T) {
	src := setupSite(t)
	parent := filepath.Dir(src)

	for _, output := range []string{parent, filepath.Dir(parent)} {
		_, err := Build(context.Background(), BuildOptions{
			Source:   src,
			Output:   output,
			Force:    true,
			Password: password("pw"),
		})
		if !errors.Is(err, ferrors.ErrOutputContainsSource) {
			t.Fatalf("output %s: expected ErrOutputContainsSource, got %v", output, err)
		}
	}
	if _, err := os.Stat(filepath.Join(src, "index.html")); err != nil {
		t.Fatalf("Source tree must survive: %v", err)
	}
}

func TestBuildForceOverwrites(t *testing.T) {
	src := setupSite(t)
	out := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, "stale.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Build(context.Background(), BuildOptions{Source: src, Output: out, Force: true, Password: password("pw")}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "stale.txt")); !os.IsNotExist(err) {
		t.Errorf("Expected stale file to be replaced, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, bundle.PayloadFile)); err != nil {
		t.Errorf("Expected payload: %v", err)
	}
}

func TestBuildExcludeAndSymlink(t *testing.T) {
	src := setupSite(t)
	if err := os.Symlink("index.html", filepath.Join(src, "link.html")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out")

	_, err := Build(context.Background(), BuildOptions{Source: src, Output: out, Password: password("pw")})
	var unsupported *ferrors.UnsupportedEntryError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected UnsupportedEntryError, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("No output may be written when the walk fails")
	}

	result, err := Build(context.Background(), BuildOptions{
		Source:   src,
		Output:   out,
		Exclude:  []string{"link.html", "assets"},
		Password: password("pw"),
	})
	if err != nil {
		t.Fatalf("Build with exclude failed: %v", err)
	}
	if result.Files != 1 || result.Dirs != 0 {
		t.Errorf("Expected only index.html, got %d files and %d dirs", result.Files, result.Dirs)
	}
	if strings.Join(result.Excluded, ",") != "link.html,assets" {
		t.Errorf("Expected excluded paths to be reported, got %v", result.Excluded)
	}
}

func TestBuildCancelled(t *testing.T) {
	src := setupSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "out")
	_, err := Build(ctx, BuildOptions{Source: src, Output: out, Password: password("pw")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("Cancelled build must not write output")
	}
}

func TestUnlockMissingBundle(t *testing.T) {
	_, err := Unlock(context.Background(), UnlockOptions{BundleDir: t.TempDir(), Password: password("pw")})
	if !errors.Is(err, ferrors.ErrBundleNotFound) {
		t.Fatalf("Expected ErrBundleNotFound, got %v", err)
	}
}

func TestBundleRouter(t *testing.T) {
	a := &bundle.Artifacts{
		Payload:    []byte{1, 2, 3},
		LoaderHTML: []byte("<html></html>"),
		RuntimeJS:  []byte("self.x=1"),
	}
	srv := httptest.NewServer(NewBundleRouter(a))
	defer srv.Close()

	tests := []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", "<html></html>"},
		{"/index.html", http.StatusOK, "text/html; charset=utf-8", "<html></html>"},
		{"/app.enc", http.StatusOK, "application/octet-stream", "\x01\x02\x03"},
		{"/sw.js", http.StatusOK, "text/javascript; charset=utf-8", "self.x=1"},
		{"/missing.css", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.status {
				t.Fatalf("Expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if tt.status != http.StatusOK {
				return
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Expected Content-Type %q, got %q", tt.contentType, got)
			}
			if got := resp.Header.Get("Cache-Control"); got != "no-store" {
				t.Errorf("Expected no-store, got %q", got)
			}
			if string(body) != tt.body {
				t.Errorf("Expected body %q, got %q", tt.body, body)
			}
			if tt.path == "/sw.js" && resp.Header.Get("Service-Worker-Allowed") != "/" {
				t.Error("Expected Service-Worker-Allowed header on sw.js")
			}
		})
	}
}

func TestServeUnlocked(t *testing.T) {
	src := setupSite(t)
	built, err := Build(context.Background(), BuildOptions{Source: src, Password: password("pw")})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, ServeOptions{
			BundleDir:   built.OutputDir,
			Addr:        "127.0.0.1:0",
			Unlock:      true,
			Password:    password("pw"),
			OnListening: func(addr string) { addrCh <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("Serve exited early: %v", err)
	case <-time.After(30 * time.Second):
		t.Fatal("Serve did not start")
	}

	get := func(p string) (int, string) {
		resp, err := http.Get("http://" + addr + p)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if status, body := get("/"); status != http.StatusOK || body != "<h1>hi</h1>" {
		t.Errorf("Expected decrypted index at /, got %d %q", status, body)
	}
	if status, body := get("/assets/app.js"); status != http.StatusOK || body != "console.log(1)" {
		t.Errorf("Expected app.js, got %d %q", status, body)
	}
	if status, _ := get("/sw.js"); status != http.StatusOK {
		t.Errorf("Expected bundle runtime to fall through, got %d", status)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not shut down")
	}
}

func TestServeMissingBundle(t *testing.T) {
	err := Serve(context.Background(), ServeOptions{BundleDir: t.TempDir(), Addr: "127.0.0.1:0"})
	if !errors.Is(err, ferrors.ErrBundleNotFound) {
		t.Fatalf("Expected ErrBundleNotFound, got %v", err)
	}
}

func TestLogFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	for _, e := range []audit.Entry{
		{Timestamp: "2026-01-01T10:00:00.000000Z", Operation: audit.OpBuild},
		{Timestamp: "2026-02-01T10:00:00.000000Z", Operation: audit.OpInspect},
		{Timestamp: "2026-03-01T10:00:00.000000Z", Operation: audit.OpBuild},
		{Timestamp: "2026-04-01T10:00:00.000000Z", Operation: audit.OpServe},
	} {
		if err := audit.LogTo(path, e); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{"all", LogOptions{}, []string{"2026-01", "2026-02", "2026-03", "2026-04"}},
		{"limit keeps most recent", LogOptions{Limit: 2}, []string{"2026-03", "2026-04"}},
		{"reverse", LogOptions{Reverse: true, Limit: 2}, []string{"2026-04", "2026-03"}},
		{"operation", LogOptions{Operations: []string{"BUILD"}}, []string{"2026-01", "2026-03"}},
		{"since", LogOptions{Since: "2026-02-15"}, []string{"2026-03", "2026-04"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Path = path
			result, err := Log(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Log failed: %v", err)
			}
			if result.Total != 4 {
				t.Errorf("Expected total 4, got %d", result.Total)
			}
			var got []string
			for _, e := range result.Entries {
				got = append(got, e.Timestamp[:7])
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLogInvalidSinceAndMissingFile(t *testing.T) {
	_, err := Log(context.Background(), LogOptions{Since: "yesterday"})
	if !errors.Is(err, ferrors.ErrInvalidDateFormat) {
		t.Fatalf("Expected ErrInvalidDateFormat, got %v", err)
	}

	result, err := Log(context.Background(), LogOptions{Path: filepath.Join(t.TempDir(), "none.jsonl")})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(result.Entries) != 0 || result.Total != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}
