package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/frontcrypt/internal/configs"
)

// setupTestEnvironment points the config directory at a temp dir and clears
// the password environment variable.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	configDir := filepath.Join(t.TempDir(), "frontcrypt")

	originalSettings := configs.FrontcryptSettings
	configs.FrontcryptSettings = &configs.Settings{ConfigDir: configDir}
	t.Setenv("FRONTCRYPT_PASSWORD", "")
	t.Setenv("NO_COLOR", "1")

	t.Cleanup(func() {
		configs.FrontcryptSettings = originalSettings
		ResetGlobalState()
	})
	return configDir
}

// writeSite creates a small static site and returns its directory.
func writeSite(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "site")
	files := map[string]string{
		"index.html":      "<!doctype html><h1>Hello</h1>",
		"css/site.css":    "h1{color:red}",
		"img/logo.svg":    "<svg></svg>",
		"docs/index.html": "<p>docs</p>",
	}
	for name, content := range files {
		p := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return src
}

// runCLI executes frontcrypt with args and returns everything printed.
func runCLI(args ...string) (string, error) {
	return captureOutput(func() error {
		root := NewRootCmd()
		root.SetArgs(args)
		return root.Execute()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)
	drain := func(r io.Reader) {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outputChan <- buf.String()
	}
	go drain(stdoutReader)
	go drain(stderrReader)

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	first := <-outputChan
	second := <-outputChan

	return first + second, err
}
