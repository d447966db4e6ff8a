package sequence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_StripsBlankAndCommentLines(t *testing.T) {
	t.Parallel()

	source := `# process demo
slider_init

loop1_2
plc_buzz
loop1_end

# trailing comment
finished
`
	path := filepath.Join(t.TempDir(), "process.seq")
	require.NoError(t, os.WriteFile(path, []byte(source), 0600))

	raw := Load(context.Background(), path)
	assert.Equal(t, []string{"slider_init", "loop1_2", "plc_buzz", "loop1_end", "finished"}, raw)
}

func TestLoad_MissingFileReturnsFallback(t *testing.T) {
	t.Parallel()

	raw := Load(context.Background(), filepath.Join(t.TempDir(), "does-not-exist.seq"))
	require.NotEmpty(t, raw)

	// The device-init line and the sentinel are separate entries; the raw
	// fallback already terminates with the sentinel on its own.
	assert.Equal(t, Sentinel, raw[len(raw)-1])
	assert.Equal(t, "slider_init cobotta_init weighing_init plc_init", raw[len(raw)-2])
}

func TestLoad_FallbackCompiles(t *testing.T) {
	t.Parallel()

	// The fallback must survive compilation like any file-loaded sequence.
	raw := Load(context.Background(), "no/such/file")
	out, err := Compile(raw)
	require.NoError(t, err)
	assert.Equal(t, Sentinel, out[len(out)-1])
}
