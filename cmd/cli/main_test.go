package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/cli"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return shouldExit=true.
	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err, "run() should exit cleanly for the help flag")
}

func TestRun_InvalidFlagReturnsExitError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, []string{"-log-format", "xml", "process.seq"})
	require.Error(t, err)
	_, ok := err.(*cli.ExitError)
	require.True(t, ok, "config validation failures should surface as *cli.ExitError")
}

func TestRun_BadConfigFileFails(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "line.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(`line {`), 0600))

	err := run(&bytes.Buffer{}, []string{"-config", configPath})
	require.Error(t, err)
}

func TestRun_CompletesSequenceOnLoopback(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A short looped sequence and a config with a fast poll so the run
	// finishes quickly. No device blocks means every device uses the
	// loopback link.
	tempDir := t.TempDir()

	sequencePath := filepath.Join(tempDir, "process.seq")
	require.NoError(t, os.WriteFile(sequencePath, []byte(`# demo pass
slider_init cobotta_init weighing_init plc_init
loop1_3
plc_buzz
loop1_end
finished
`), 0600))

	configPath := filepath.Join(tempDir, "line.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
line {
  sequence_file = %q
  poll_interval = "1ms"
}
`, sequencePath)), 0600))

	// --- Act ---
	out := &bytes.Buffer{}
	err := run(out, []string{"-config", configPath, "-log-level", "error"})

	// --- Assert ---
	require.NoError(t, err, "a loopback run should walk the whole sequence and return nil")
}
