package ffmpeg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// EncoderError reports a failed assembly for one sequence.
type EncoderError struct {
	Path   string // Output video path.
	Hint   string // Short cause when stderr matched a known pattern.
	Stderr string // Last lines of ffmpeg stderr.
	Err    error
}

func (e *EncoderError) Error() string {
	msg := fmt.Sprintf("encode %q: %v", e.Path, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *EncoderError) Unwrap() error { return e.Err }

// IsEncoderError reports whether err wraps an *EncoderError.
func IsEncoderError(err error) bool {
	var ee *EncoderError
	return errors.As(err, &ee)
}

// ErrNoFrames is returned when a sequence has nothing left to assemble.
var ErrNoFrames = errors.New("no frames to assemble")

// Pre-compiled stderr patterns, checked in order by Hint.
var (
	reUnknownEncoder = regexp.MustCompile(`(?i)Unknown encoder|Encoder not found|Error (while opening|initializing) encoder`)
	reBadFrame       = regexp.MustCompile(`(?i)Invalid data found when processing input|could not find codec parameters|Error while decoding`)
	reFrameSize      = regexp.MustCompile(`(?i)Input picture width|height not divisible by 2|not divisible by 2`)
	reOutputExists   = regexp.MustCompile(`(?i)already exists\. Exiting|File '.*' already exists`)
	reNoInput        = regexp.MustCompile(`(?i)Could find no file with path|No such file or directory`)
)

// Hint maps ffmpeg stderr to a short human-readable cause, or "".
func Hint(stderr string) string {
	switch {
	case reUnknownEncoder.MatchString(stderr):
		return "codec unavailable in this ffmpeg build; try --codec libx264"
	case reFrameSize.MatchString(stderr):
		return "frame dimensions must be even for yuv420p"
	case reBadFrame.MatchString(stderr):
		return "a frame could not be decoded"
	case reOutputExists.MatchString(stderr):
		return "output already exists"
	case reNoInput.MatchString(stderr):
		return "staged frames were not found"
	}
	return ""
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var keep []string
	for i := len(lines) - 1; i >= 0 && len(keep) < n; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			keep = append([]string{lines[i]}, keep...)
		}
	}
	return strings.Join(keep, "\n")
}
