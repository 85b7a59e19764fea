package config

// This file binds Config fields to pflag flags. Flags are grouped into stages,
// thresholds, assembly, tools, and display. Negated flags (e.g. --no-multicam)
// write the inverse into the bound field so DefaultConfig holds unless set.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// BindFlags registers every organizer flag on fs, bound to cfg. The current
// cfg values become the flag defaults shown in help.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	defineStageFlags(fs, cfg)
	defineThresholdFlags(fs, cfg)
	defineAssemblyFlags(fs, cfg)
	defineToolFlags(fs, cfg)
	defineDisplayFlags(fs, cfg)
}

// defineStageFlags registers the stage switches and --dry-run.
func defineStageFlags(fs *pflag.FlagSet, cfg *Config) {
	invertedVar(fs, &cfg.Classify, "no-classify", "Skip the classification stage")
	invertedVar(fs, &cfg.Multicam, "no-multicam", "Skip multicam grouping")
	invertedVar(fs, &cfg.Timelapse, "no-timelapse", "Skip timelapse detection and frame filtering")
	invertedVar(fs, &cfg.Assemble, "no-assemble", "Do not encode filtered sequences into video")
	invertedVar(fs, &cfg.AutoRotate, "no-rotate", "Do not rotate portrait frames to landscape")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", cfg.DryRun, "Plan and log only; do not move, link, rotate or encode")
}

// defineThresholdFlags registers the grouping, detection and filter thresholds.
func defineThresholdFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Float64Var(&cfg.ShortFootageSeconds, "short-footage", cfg.ShortFootageSeconds, "Videos shorter than this (seconds) go to footage/")
	fs.BoolVar(&cfg.FPSSplit, "fps-split", cfg.FPSSplit, "Put 120 and 240 fps video in 120fps/ and 240fps/ bucket subfolders")
	fs.Float64Var(&cfg.ProximityWindowSeconds, "window", cfg.ProximityWindowSeconds, "Multicam proximity window in seconds")
	fs.IntVar(&cfg.SequenceMinLength, "min-length", cfg.SequenceMinLength, "Minimum photos in a timelapse run")
	fs.IntVar(&cfg.IntervalToleranceSeconds, "tolerance", cfg.IntervalToleranceSeconds, "Allowed interval drift in whole seconds")
	fs.Float64Var(&cfg.DuplicatePixelTolerance, "dup-tolerance", cfg.DuplicatePixelTolerance, "Changed-pixel fraction below which a frame is a duplicate")
	fs.IntVar(&cfg.DuplicateLuminanceCutoff, "dup-cutoff", cfg.DuplicateLuminanceCutoff, "Gray difference above which a pixel counts as changed")
	fs.IntVar(&cfg.ObstructionPixelThreshold, "obstruction-pixels", cfg.ObstructionPixelThreshold, "In-range pixel count above which a frame is obstructed")
	fs.Float64Var(&cfg.ObstructionPercentThreshold, "obstruction-percent", cfg.ObstructionPercentThreshold, "In-range percent above which a frame is obstructed (0 disables)")
	fs.Var(&colorRangesValue{&cfg.ObstructionColors}, "obstruction-colors", "BGR ranges as 'b,g,r:b,g,r' separated by ';'")
}

// defineAssemblyFlags registers encoder settings.
func defineAssemblyFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "Output frame rate for assembled timelapses")
	fs.StringVar(&cfg.VideoCodec, "codec", cfg.VideoCodec, "Video codec (auto picks h264_videotoolbox or libx264)")
	fs.StringVar(&cfg.VideoBitrate, "bitrate", cfg.VideoBitrate, "Target video bitrate")
}

// defineToolFlags registers external binary paths.
func defineToolFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "Path to ffprobe")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to ffmpeg")
}

// defineDisplayFlags registers colors, verbosity, log, report and config file.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Color output: auto | always | never")
	f := fs.VarPF(&noColorValue{&cfg.ColorMode}, "no-color", "", "Same as --color=never")
	f.NoOptDefVal = "true"
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.ReportFile, "report", cfg.ReportFile, "Write a run report (.yaml or .json)")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Load settings from a .yaml or .toml file")
}

// invertedVar registers a --no-x flag that clears *p when given.
func invertedVar(fs *pflag.FlagSet, p *bool, name, usage string) {
	f := fs.VarPF(&invertedBool{p}, name, "", usage)
	f.NoOptDefVal = "true"
}

// pflag.Value adapters for negated bools and enum types.

type invertedBool struct{ p *bool }

func (b *invertedBool) String() string { return strconv.FormatBool(!*b.p) }
func (b *invertedBool) Type() string   { return "bool" }
func (b *invertedBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b.p = !v
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

type noColorValue struct{ p *ColorMode }

func (n *noColorValue) String() string { return strconv.FormatBool(*n.p == ColorNever) }
func (n *noColorValue) Type() string   { return "bool" }
func (n *noColorValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		*n.p = ColorNever
	}
	return nil
}

type colorRangesValue struct{ p *[]ColorRange }

func (c *colorRangesValue) Type() string { return "ranges" }

func (c *colorRangesValue) String() string {
	parts := make([]string, 0, len(*c.p))
	for _, r := range *c.p {
		parts = append(parts, formatTriple(r.Lower)+":"+formatTriple(r.Upper))
	}
	return strings.Join(parts, ";")
}

func (c *colorRangesValue) Set(s string) error {
	ranges, err := ParseColorRanges(s)
	if err != nil {
		return err
	}
	*c.p = ranges
	return nil
}

// ParseColorRanges parses "b,g,r:b,g,r;b,g,r:b,g,r" into color ranges.
func ParseColorRanges(s string) ([]ColorRange, error) {
	var out []ColorRange
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("color range %q: want lower:upper", part)
		}
		lower, err := parseTriple(lo)
		if err != nil {
			return nil, fmt.Errorf("color range %q: %w", part, err)
		}
		upper, err := parseTriple(hi)
		if err != nil {
			return nil, fmt.Errorf("color range %q: %w", part, err)
		}
		out = append(out, ColorRange{Lower: lower, Upper: upper})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no color ranges in %q", s)
	}
	return out, nil
}

func parseTriple(s string) ([3]uint8, error) {
	var t [3]uint8
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return t, fmt.Errorf("want three channel values, got %d", len(fields))
	}
	for i, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return t, fmt.Errorf("channel %d must be 0-255 (got %q)", i, f)
		}
		t[i] = uint8(n)
	}
	return t, nil
}

func formatTriple(t [3]uint8) string {
	return fmt.Sprintf("%d,%d,%d", t[0], t[1], t[2])
}
