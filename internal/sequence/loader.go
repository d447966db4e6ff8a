package sequence

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/ctxlog"
)

// fallback is the built-in sequence installed when the source file cannot be
// read: init every device, a short demo pass, re-init, done. It goes through
// Compile like any file-loaded sequence.
var fallback = []string{
	"slider_init cobotta_init weighing_init plc_init",
	"slider_shelf_1 plc_buzz",
	"weighing_open slider_weight_pos cobotta_test",
	"slider_init cobotta_init weighing_init plc_init",
	Sentinel,
}

// Load reads the sequence source at path, dropping blank lines and lines
// starting with '#'. A missing or unreadable file is not fatal: the built-in
// fallback lines are returned instead, so the caller always has something to
// compile.
func Load(ctx context.Context, path string) []string {
	logger := ctxlog.FromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Sequence file unavailable, using built-in fallback.", "path", path, "error", err)
		return append([]string(nil), fallback...)
	}
	defer f.Close()
	logger.Info("Loading process sequence from file.", "path", path)

	var raw []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Sequence file read failed mid-stream, using built-in fallback.", "path", path, "error", err)
		return append([]string(nil), fallback...)
	}

	return raw
}
