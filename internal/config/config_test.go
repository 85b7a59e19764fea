package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/cards", "/media/cards"},
		{"single trailing slash", "/media/cards/", "/media/cards"},
		{"multiple trailing slashes", "/media/cards///", "/media/cards"},
		{"root path", "/", "/"},
		{"relative path", "cards", "cards"},
		{"relative with slash", "cards/", "cards"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig_Thresholds(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ProximityWindowSeconds != 10 {
		t.Errorf("ProximityWindowSeconds = %v, want 10", cfg.ProximityWindowSeconds)
	}
	if cfg.SequenceMinLength != 100 {
		t.Errorf("SequenceMinLength = %d, want 100", cfg.SequenceMinLength)
	}
	if cfg.IntervalToleranceSeconds != 1 {
		t.Errorf("IntervalToleranceSeconds = %d, want 1", cfg.IntervalToleranceSeconds)
	}
	if cfg.DuplicatePixelTolerance != 0.01 {
		t.Errorf("DuplicatePixelTolerance = %v, want 0.01", cfg.DuplicatePixelTolerance)
	}
	if cfg.ObstructionPixelThreshold != 5000 {
		t.Errorf("ObstructionPixelThreshold = %d, want 5000", cfg.ObstructionPixelThreshold)
	}
	if cfg.ObstructionPercentThreshold != 0 {
		t.Errorf("ObstructionPercentThreshold = %v, want 0", cfg.ObstructionPercentThreshold)
	}
	if len(cfg.ObstructionColors) != 2 {
		t.Fatalf("ObstructionColors = %d ranges, want 2", len(cfg.ObstructionColors))
	}
	if cfg.FPSSplit {
		t.Error("FPSSplit should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad color mode", func(c *Config) { c.ColorMode = "rainbow" }, true},
		{"negative window", func(c *Config) { c.ProximityWindowSeconds = -1 }, true},
		{"min length one", func(c *Config) { c.SequenceMinLength = 1 }, true},
		{"tolerance above one", func(c *Config) { c.DuplicatePixelTolerance = 1.5 }, true},
		{"cutoff above 255", func(c *Config) { c.DuplicateLuminanceCutoff = 300 }, true},
		{"percent above 100", func(c *Config) { c.ObstructionPercentThreshold = 101 }, true},
		{"inverted range", func(c *Config) {
			c.ObstructionColors = []ColorRange{{Lower: [3]uint8{10, 0, 0}, Upper: [3]uint8{5, 0, 0}}}
		}, true},
		{"zero fps", func(c *Config) { c.FrameRate = 0 }, true},
		{"empty codec", func(c *Config) { c.VideoCodec = " " }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		root    string
		wantErr bool
	}{
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "nope"), true},
		{"file", file, true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Root = tt.root
			if err := cfg.ValidateRoot(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoot() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestColorRangeContains(t *testing.T) {
	r := ColorRange{Lower: [3]uint8{112, 141, 206}, Upper: [3]uint8{131, 161, 221}}
	tests := []struct {
		b, g, rr uint8
		want     bool
	}{
		{112, 141, 206, true},
		{131, 161, 221, true},
		{120, 150, 210, true},
		{111, 150, 210, false},
		{120, 162, 210, false},
		{120, 150, 222, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.b, tt.g, tt.rr); got != tt.want {
			t.Errorf("Contains(%d,%d,%d) = %v, want %v", tt.b, tt.g, tt.rr, got, tt.want)
		}
	}
}

func TestParseColorRanges(t *testing.T) {
	got, err := ParseColorRanges("1,2,3:4,5,6; 7,8,9:10,11,12")
	if err != nil {
		t.Fatalf("ParseColorRanges: %v", err)
	}
	if len(got) != 2 || got[1].Upper != [3]uint8{10, 11, 12} {
		t.Errorf("ParseColorRanges = %+v", got)
	}
	for _, bad := range []string{"", "1,2,3", "1,2:3,4,5", "1,2,300:4,5,6"} {
		if _, err := ParseColorRanges(bad); err == nil {
			t.Errorf("ParseColorRanges(%q) expected error", bad)
		}
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camsort.yaml")
	body := "proximityWindowSeconds: 5\nsequenceMinLength: 50\nmulticam: false\ncolor: never\n" +
		"obstructionColors:\n  - lower: [1, 2, 3]\n    upper: [4, 5, 6]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ProximityWindowSeconds != 5 || cfg.SequenceMinLength != 50 {
		t.Errorf("window=%v minLength=%d", cfg.ProximityWindowSeconds, cfg.SequenceMinLength)
	}
	if cfg.Multicam {
		t.Error("Multicam should be false")
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want never", cfg.ColorMode)
	}
	if len(cfg.ObstructionColors) != 1 || cfg.ObstructionColors[0].Upper != [3]uint8{4, 5, 6} {
		t.Errorf("ObstructionColors = %+v", cfg.ObstructionColors)
	}
	if cfg.DuplicatePixelTolerance != 0.01 {
		t.Errorf("absent key changed DuplicatePixelTolerance to %v", cfg.DuplicatePixelTolerance)
	}
}

func TestLoadFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camsort.toml")
	body := "intervalToleranceSeconds = 2\nvideoCodec = \"libx264\"\nassemble = false\nfpsSplit = true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.IntervalToleranceSeconds != 2 || cfg.VideoCodec != "libx264" || cfg.Assemble || !cfg.FPSSplit {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(unknown, []byte("nonsense: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ext := filepath.Join(dir, "camsort.ini")
	if err := os.WriteFile(ext, []byte("x=1"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{unknown, ext, filepath.Join(dir, "missing.yaml")} {
		cfg := DefaultConfig()
		if err := LoadFile(&cfg, p); err == nil {
			t.Errorf("LoadFile(%s) expected error", p)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvFFmpeg: "/opt/ffmpeg", EnvVideoCodec: "libx264"}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	cfg := DefaultConfig()
	ApplyEnv(&cfg, lookup)
	if cfg.FFmpegPath != "/opt/ffmpeg" || cfg.VideoCodec != "libx264" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FFprobePath != "ffprobe" {
		t.Errorf("FFprobePath = %q, want default", cfg.FFprobePath)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camsort.yaml")
	if err := os.WriteFile(path, []byte("proximityWindowSeconds: 5\nsequenceMinLength: 50\nffmpeg: /file/ffmpeg\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFFmpeg, "/env/ffmpeg")
	t.Setenv(EnvFFprobe, "/env/ffprobe")

	bound := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, &bound)
	if err := fs.Parse([]string{"--window", "3", "--no-multicam", "--no-color", "--fps-split"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProximityWindowSeconds != 3 {
		t.Errorf("flag should win: window = %v", cfg.ProximityWindowSeconds)
	}
	if cfg.SequenceMinLength != 50 {
		t.Errorf("file should win over default: minLength = %d", cfg.SequenceMinLength)
	}
	if cfg.FFmpegPath != "/file/ffmpeg" {
		t.Errorf("file should win over env: ffmpeg = %q", cfg.FFmpegPath)
	}
	if cfg.FFprobePath != "/env/ffprobe" {
		t.Errorf("env should win over default: ffprobe = %q", cfg.FFprobePath)
	}
	if cfg.Multicam {
		t.Error("--no-multicam should disable multicam")
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want never", cfg.ColorMode)
	}
	if !cfg.Classify {
		t.Error("unset flags must not reset file/default values")
	}
	if !cfg.FPSSplit {
		t.Error("--fps-split should enable frame-rate folders")
	}
}
