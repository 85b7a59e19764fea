package check

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/backmassage/camsort/internal/config"
)

type mockLogger struct {
	lines []string
}

func (m *mockLogger) add(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}

func (m *mockLogger) Info(f string, a ...interface{})    { m.add("INFO", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{}) { m.add("SUCCESS", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})    { m.add("WARN", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})   { m.add("ERROR", f, a...) }
func (m *mockLogger) Debug(f string, a ...interface{})   { m.add("DEBUG", f, a...) }

func missingTools(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.FFprobePath = filepath.Join(dir, "no-ffprobe")
	cfg.FFmpegPath = filepath.Join(dir, "no-ffmpeg")
	return cfg
}

func TestCheckDeps_MissingFFprobe(t *testing.T) {
	cfg := missingTools(t)
	if err := CheckDeps(context.Background(), &cfg); !errors.Is(err, ErrFfprobeNotFound) {
		t.Errorf("err = %v, want ErrFfprobeNotFound", err)
	}
}

func TestCheckAssembler(t *testing.T) {
	cfg := missingTools(t)
	if err := CheckAssembler(context.Background(), &cfg); !errors.Is(err, ErrFfmpegNotFound) {
		t.Errorf("err = %v, want ErrFfmpegNotFound", err)
	}
	cfg.DryRun = true
	if err := CheckAssembler(context.Background(), &cfg); err != nil {
		t.Errorf("dry run needs no ffmpeg: %v", err)
	}
	cfg.DryRun, cfg.Assemble = false, false
	if err := CheckAssembler(context.Background(), &cfg); err != nil {
		t.Errorf("assembly disabled needs no ffmpeg: %v", err)
	}
}

func TestRunCheck_MissingTools(t *testing.T) {
	cfg := missingTools(t)
	log := &mockLogger{}
	if failed := RunCheck(context.Background(), &cfg, log); failed != 2 {
		t.Errorf("failed = %d, want 2; log:\n%v", failed, log.lines)
	}
	errs := 0
	for _, l := range log.lines {
		if len(l) > 5 && l[:5] == "ERROR" {
			errs++
		}
	}
	if errs != 2 {
		t.Errorf("error lines = %d, want 2; log:\n%v", errs, log.lines)
	}
}

func TestH264Lines(t *testing.T) {
	listing := ` V....D libx264              libx264 H.264 / AVC
 V....D libx265              libx265 H.265 / HEVC
 V....D h264_videotoolbox    VideoToolbox H.264 Encoder`
	if got := h264Lines(listing); len(got) != 2 {
		t.Errorf("h264Lines = %v", got)
	}
}

func TestTestEncodeArgs(t *testing.T) {
	args := testEncodeArgs("libx264")
	for i, a := range args {
		if a == "-c:v" && args[i+1] == "libx264" {
			return
		}
	}
	t.Errorf("codec missing from %v", args)
}
