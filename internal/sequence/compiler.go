package sequence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Sentinel is the instruction every compiled sequence ends with. The
// controller appends it when the source omits it, so consumers can rely on
// the last step always being Sentinel.
const Sentinel = "finished"

// Compile error kinds. Callers distinguish them with errors.Is; every error
// returned by Compile wraps exactly one of these.
var (
	ErrInvalidRepeat    = errors.New("loop repeat must be >= 1")
	ErrInvalidLoopID    = errors.New("loop id out of range")
	ErrUnmatchedLoopEnd = errors.New("loop end without open loop")
	ErrLoopIDMismatch   = errors.New("loop id mismatch")
	ErrUnclosedLoop     = errors.New("unclosed loop at end of input")
)

var (
	loopStartRe = regexp.MustCompile(`^\s*loop(\d+)_(\d+)\s*$`)
	loopEndRe   = regexp.MustCompile(`^\s*loop(\d+)_end\s*$`)
)

// loopFrame is one open loop block. Frames live on an explicit stack so
// nesting depth is bounded only by input size, never by the call stack.
type loopFrame struct {
	id     int
	repeat int
	block  []string
}

// Compile unrolls all loop markers in raw and returns the flat instruction
// list. It is pure: raw is not modified and the same input always yields the
// same output. Blank lines and comments must already be stripped by the
// loader. On any structural error the whole compile fails with no partial
// output.
func Compile(raw []string) ([]string, error) {
	var out []string
	var stack []*loopFrame

	for _, line := range raw {
		if m := loopStartRe.FindStringSubmatch(line); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLoopID, line)
			}
			// A repeat too large for int is as unusable as zero; both fail
			// the same way so the caller converges to the fallback.
			repeat, err := strconv.Atoi(m[2])
			if err != nil || repeat < 1 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidRepeat, line)
			}
			stack = append(stack, &loopFrame{id: id, repeat: repeat})
			continue
		}

		if m := loopEndRe.FindStringSubmatch(line); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLoopID, line)
			}
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: %q", ErrUnmatchedLoopEnd, line)
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if frame.id != id {
				return nil, fmt.Errorf("%w: expected loop%d_end, got %q", ErrLoopIDMismatch, frame.id, line)
			}

			expanded := make([]string, 0, len(frame.block)*frame.repeat)
			for i := 0; i < frame.repeat; i++ {
				expanded = append(expanded, frame.block...)
			}

			// An inner loop's expansion becomes ordinary content of the
			// enclosing frame, expanded again when that frame closes.
			if len(stack) == 0 {
				out = append(out, expanded...)
			} else {
				top := stack[len(stack)-1]
				top.block = append(top.block, expanded...)
			}
			continue
		}

		if len(stack) == 0 {
			out = append(out, line)
		} else {
			top := stack[len(stack)-1]
			top.block = append(top.block, line)
		}
	}

	if len(stack) > 0 {
		frame := stack[len(stack)-1]
		return nil, fmt.Errorf("%w: loop%d_%d", ErrUnclosedLoop, frame.id, frame.repeat)
	}

	return out, nil
}
