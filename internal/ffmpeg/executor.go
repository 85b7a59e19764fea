package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Encoder turns ordered frames into one video file.
type Encoder interface {
	Assemble(ctx context.Context, frames []string, frameRate int, out string) error
}

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute runs args (binary first). When verbose is set, stderr is tee'd to
// os.Stderr in real time; otherwise it is only captured.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// Assembler is the production Encoder.
type Assembler struct {
	FFmpeg  string
	Codec   string // Concrete encoder name.
	Bitrate string
	Verbose bool

	// run is swapped in tests to avoid a real ffmpeg.
	run func(ctx context.Context, args []string, verbose bool) ExecResult
}

// NewAssembler returns an Assembler for a resolved codec.
func NewAssembler(ffmpegPath, codec, bitrate string, verbose bool) *Assembler {
	return &Assembler{FFmpeg: ffmpegPath, Codec: codec, Bitrate: bitrate, Verbose: verbose, run: Execute}
}

// Assemble implements Encoder. A partial output left by a failed run is
// removed.
func (a *Assembler) Assemble(ctx context.Context, frames []string, frameRate int, out string) error {
	if len(frames) == 0 {
		return &EncoderError{Path: out, Err: ErrNoFrames}
	}
	stage, err := Stage(frames)
	if err != nil {
		return &EncoderError{Path: out, Err: err}
	}
	defer os.RemoveAll(stage)

	args := BuildArgs(a.FFmpeg, Options{FrameRate: frameRate, Codec: a.Codec, Bitrate: a.Bitrate},
		filepath.Join(stage, FramePattern), out)
	run := a.run
	if run == nil {
		run = Execute
	}
	res := run(ctx, args, a.Verbose)
	if res.Err != nil {
		if ctx.Err() == nil {
			_ = os.Remove(out)
		}
		return &EncoderError{Path: out, Hint: Hint(res.Stderr), Stderr: tail(res.Stderr, 5), Err: res.Err}
	}
	return nil
}

// Stage creates a temp directory holding one symlink per frame, named by
// FramePattern from 0 in the given order, and returns its path. The caller
// removes it.
func Stage(frames []string) (string, error) {
	dir, err := os.MkdirTemp("", "camsort-frames-")
	if err != nil {
		return "", fmt.Errorf("stage frames: %w", err)
	}
	for i, f := range frames {
		abs, err := filepath.Abs(f)
		if err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("stage frames: %w", err)
		}
		link := filepath.Join(dir, fmt.Sprintf(FramePattern, i))
		if err := os.Symlink(abs, link); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("stage frames: %w", err)
		}
	}
	return dir, nil
}

var _ Encoder = (*Assembler)(nil)
