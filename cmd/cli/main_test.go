package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_InvalidSessionFile(t *testing.T) {
	// --- Arrange ---
	invalidHCL := `
		world {
			default = "office"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "session.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	code := run(context.Background(), out, errOut, []string{"--config", filePath})

	// --- Assert ---
	require.Equal(t, 1, code)
	require.Contains(t, errOut.String(), "failed to parse")
	require.Empty(t, out.String())
}

func TestRun_Help(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	code := run(context.Background(), out, errOut, []string{"-h"})

	require.Equal(t, 0, code, "help should not be an error")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	code := run(context.Background(), out, errOut, []string{"--this-is-not-a-valid-flag"})

	require.Equal(t, 2, code)
	require.Contains(t, errOut.String(), "unknown flag: --this-is-not-a-valid-flag")
}
