package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_PlainInstructions(t *testing.T) {
	t.Parallel()

	raw := []string{"slider_init", "weighing_open slider_weight_pos", "finished"}
	out, err := Compile(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestCompile_BalancedExpansion(t *testing.T) {
	t.Parallel()

	out, err := Compile([]string{"loop1_3", "a", "b", "loop1_end"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, out)
}

func TestCompile_NestedLoops(t *testing.T) {
	t.Parallel()

	// The inner loop expands first; its body becomes ordinary content of the
	// outer block, expanded again when the outer loop closes.
	out, err := Compile([]string{
		"loop1_2",
		"x",
		"loop2_2",
		"y",
		"loop2_end",
		"loop1_end",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "y", "x", "y", "y"}, out)
}

func TestCompile_ExpansionLength(t *testing.T) {
	t.Parallel()

	// A loop with repeat n and body length k contributes exactly n*k steps.
	out, err := Compile([]string{"loop7_4", "a", "b", "c", "loop7_end"})
	require.NoError(t, err)
	assert.Len(t, out, 12)
}

func TestCompile_MarkersAreWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	out, err := Compile([]string{"  loop1_2  ", "a", "\tloop1_end"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a"}, out)
}

func TestCompile_LoopIDReusableAfterClose(t *testing.T) {
	t.Parallel()

	out, err := Compile([]string{
		"loop1_2", "a", "loop1_end",
		"loop1_2", "b", "loop1_end",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a", "b", "b"}, out)
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		raw     []string
		wantErr error
	}{
		{
			name:    "zero repeat",
			raw:     []string{"loop1_0", "a", "loop1_end"},
			wantErr: ErrInvalidRepeat,
		},
		{
			name:    "lone loop end",
			raw:     []string{"loop1_end"},
			wantErr: ErrUnmatchedLoopEnd,
		},
		{
			name:    "mismatched ids",
			raw:     []string{"loop1_3", "a", "loop2_end"},
			wantErr: ErrLoopIDMismatch,
		},
		{
			name:    "missing loop end",
			raw:     []string{"loop1_3", "a"},
			wantErr: ErrUnclosedLoop,
		},
		{
			name:    "inner loop left open",
			raw:     []string{"loop1_2", "loop2_2", "a", "loop1_end"},
			wantErr: ErrLoopIDMismatch,
		},
		{
			name:    "repeat overflows int",
			raw:     []string{"loop1_99999999999999999999", "a", "b", "loop1_end"},
			wantErr: ErrInvalidRepeat,
		},
		{
			name:    "start id overflows int",
			raw:     []string{"loop99999999999999999999_2", "a", "loop99999999999999999999_end"},
			wantErr: ErrInvalidLoopID,
		},
		{
			name:    "end id overflows int",
			raw:     []string{"loop1_2", "a", "loop99999999999999999999_end"},
			wantErr: ErrInvalidLoopID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := Compile(tc.raw)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, out, "a failed compile must produce no partial output")
		})
	}
}

func TestCompile_InputUntouched(t *testing.T) {
	t.Parallel()

	raw := []string{"loop1_2", "a", "loop1_end"}
	snapshot := append([]string(nil), raw...)

	_, err := Compile(raw)
	require.NoError(t, err)
	assert.Equal(t, snapshot, raw)
}
