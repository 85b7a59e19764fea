// Package check provides system diagnostics (the check command) and
// pre-pipeline dependency validation (CheckDeps) for ffprobe, ffmpeg and the
// H.264 encoders used for timelapse assembly.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/camsort/internal/config"
	"github.com/backmassage/camsort/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrEncodeFailed    = errors.New("test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck prints availability of ffprobe, ffmpeg, the H.264 encoders and a
// test encode with the codec assembly would use. It reports the number of
// failed checks and never stops early.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) int {
	log.Info("=== System Check ===")

	failed := 0
	if !checkVersion(ctx, log, "ffprobe", cfg.FFprobePath) {
		failed++
	}
	if !checkVersion(ctx, log, "ffmpeg", cfg.FFmpegPath) {
		return failed + 1
	}
	checkH264Encoders(ctx, cfg.FFmpegPath, log)

	codec := ffmpeg.ResolveCodec(ctx, cfg.VideoCodec, cfg.FFmpegPath)
	log.Info("Testing %s...", codec)
	if runSilent(ctx, cfg.FFmpegPath, testEncodeArgs(codec)...) {
		log.Success("%s works", codec)
	} else {
		log.Error("%s test encode failed", codec)
		failed++
	}
	return failed
}

// checkVersion verifies bin runs and logs the first line of -version.
func checkVersion(ctx context.Context, log Logger, name, bin string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s not found (%s)", name, bin)
		return false
	}
	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return false
	}
	log.Success("%s: %s", name, firstLine(string(out)))
	return true
}

// checkH264Encoders lists the H.264 encoders reported by ffmpeg.
func checkH264Encoders(ctx context.Context, bin string, log Logger) {
	log.Info("H.264 encoders:")
	out, err := exec.CommandContext(ctx, bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	for _, line := range h264Lines(string(out)) {
		log.Info("  %s", line)
	}
}

func h264Lines(listing string) []string {
	var lines []string
	for _, line := range strings.Split(listing, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "h264") || strings.Contains(lower, "264") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

// CheckDeps is the pre-pipeline validation for a full run: ffprobe is
// always required, then CheckAssembler applies.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, cfg.FFprobePath)
	}
	return CheckAssembler(ctx, cfg)
}

// CheckAssembler verifies ffmpeg and a working encoder when assembly will
// actually run (enabled and not a dry run).
func CheckAssembler(ctx context.Context, cfg *config.Config) error {
	if !cfg.Assemble || !cfg.Timelapse || cfg.DryRun {
		return nil
	}
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, cfg.FFmpegPath)
	}
	codec := ffmpeg.ResolveCodec(ctx, cfg.VideoCodec, cfg.FFmpegPath)
	if !runSilent(ctx, cfg.FFmpegPath, testEncodeArgs(codec)...) {
		return fmt.Errorf("%w: %s", ErrEncodeFailed, codec)
	}
	return nil
}

// testEncodeArgs returns the ffmpeg arguments for a minimal encode with codec.
func testEncodeArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-pix_fmt", "yuv420p",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}

// runSilent runs a command and returns true if it exits with status 0.
func runSilent(ctx context.Context, name string, args ...string) bool {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run() == nil
}
