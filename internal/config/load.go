package config

// This file merges configuration sources. Precedence, lowest to highest:
// DefaultConfig, CAMSORT_* environment variables, the config file, and flags
// the user actually passed.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by ApplyEnv.
const (
	EnvFFprobe    = "CAMSORT_FFPROBE"
	EnvFFmpeg     = "CAMSORT_FFMPEG"
	EnvLogFile    = "CAMSORT_LOG"
	EnvVideoCodec = "CAMSORT_VIDEO_CODEC"
	EnvConfigFile = "CAMSORT_CONFIG"
)

// fileConfig is the on-disk schema. Pointer fields leave the lower layers
// untouched when a key is absent.
type fileConfig struct {
	Classify                    *bool        `yaml:"classify" toml:"classify"`
	Multicam                    *bool        `yaml:"multicam" toml:"multicam"`
	Timelapse                   *bool        `yaml:"timelapse" toml:"timelapse"`
	Assemble                    *bool        `yaml:"assemble" toml:"assemble"`
	AutoRotate                  *bool        `yaml:"autoRotate" toml:"autoRotate"`
	ShortFootageSeconds         *float64     `yaml:"shortFootageSeconds" toml:"shortFootageSeconds"`
	FPSSplit                    *bool        `yaml:"fpsSplit" toml:"fpsSplit"`
	ProximityWindowSeconds      *float64     `yaml:"proximityWindowSeconds" toml:"proximityWindowSeconds"`
	SequenceMinLength           *int         `yaml:"sequenceMinLength" toml:"sequenceMinLength"`
	IntervalToleranceSeconds    *int         `yaml:"intervalToleranceSeconds" toml:"intervalToleranceSeconds"`
	DuplicatePixelTolerance     *float64     `yaml:"duplicatePixelTolerance" toml:"duplicatePixelTolerance"`
	DuplicateLuminanceCutoff    *int         `yaml:"duplicateLuminanceCutoff" toml:"duplicateLuminanceCutoff"`
	ObstructionPixelThreshold   *int         `yaml:"obstructionPixelThreshold" toml:"obstructionPixelThreshold"`
	ObstructionPercentThreshold *float64     `yaml:"obstructionPercentThreshold" toml:"obstructionPercentThreshold"`
	ObstructionColors           []ColorRange `yaml:"obstructionColors" toml:"obstructionColors"`
	FrameRate                   *int         `yaml:"frameRate" toml:"frameRate"`
	VideoCodec                  *string      `yaml:"videoCodec" toml:"videoCodec"`
	VideoBitrate                *string      `yaml:"videoBitrate" toml:"videoBitrate"`
	FFprobePath                 *string      `yaml:"ffprobe" toml:"ffprobe"`
	FFmpegPath                  *string      `yaml:"ffmpeg" toml:"ffmpeg"`
	DryRun                      *bool        `yaml:"dryRun" toml:"dryRun"`
	Verbose                     *bool        `yaml:"verbose" toml:"verbose"`
	ColorMode                   *string      `yaml:"color" toml:"color"`
	LogFile                     *string      `yaml:"log" toml:"log"`
	ReportFile                  *string      `yaml:"report" toml:"report"`
}

// Load builds the effective Config. flags is the parsed flag set whose
// changed flags are replayed last; configPath, when empty, falls back to
// CAMSORT_CONFIG and then to no file.
func Load(flags *pflag.FlagSet, configPath string) (Config, error) {
	cfg := DefaultConfig()
	ApplyEnv(&cfg, os.LookupEnv)

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}
	if configPath != "" {
		if err := LoadFile(&cfg, configPath); err != nil {
			return cfg, err
		}
		cfg.ConfigFile = configPath
	}

	if flags != nil {
		if err := replayChanged(flags, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// ApplyEnv overlays tool paths, log file and codec from the environment.
// lookup is os.LookupEnv in production.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvFFprobe); ok && v != "" {
		cfg.FFprobePath = v
	}
	if v, ok := lookup(EnvFFmpeg); ok && v != "" {
		cfg.FFmpegPath = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		cfg.LogFile = v
	}
	if v, ok := lookup(EnvVideoCodec); ok && v != "" {
		cfg.VideoCodec = v
	}
}

// LoadFile overlays settings from a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported extension (use .yaml, .yml or .toml)", path)
	}
	return fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) error {
	setBool(&cfg.Classify, fc.Classify)
	setBool(&cfg.Multicam, fc.Multicam)
	setBool(&cfg.Timelapse, fc.Timelapse)
	setBool(&cfg.Assemble, fc.Assemble)
	setBool(&cfg.AutoRotate, fc.AutoRotate)
	setFloat(&cfg.ShortFootageSeconds, fc.ShortFootageSeconds)
	setBool(&cfg.FPSSplit, fc.FPSSplit)
	setFloat(&cfg.ProximityWindowSeconds, fc.ProximityWindowSeconds)
	setInt(&cfg.SequenceMinLength, fc.SequenceMinLength)
	setInt(&cfg.IntervalToleranceSeconds, fc.IntervalToleranceSeconds)
	setFloat(&cfg.DuplicatePixelTolerance, fc.DuplicatePixelTolerance)
	setInt(&cfg.DuplicateLuminanceCutoff, fc.DuplicateLuminanceCutoff)
	setInt(&cfg.ObstructionPixelThreshold, fc.ObstructionPixelThreshold)
	setFloat(&cfg.ObstructionPercentThreshold, fc.ObstructionPercentThreshold)
	if len(fc.ObstructionColors) > 0 {
		cfg.ObstructionColors = fc.ObstructionColors
	}
	setInt(&cfg.FrameRate, fc.FrameRate)
	setString(&cfg.VideoCodec, fc.VideoCodec)
	setString(&cfg.VideoBitrate, fc.VideoBitrate)
	setString(&cfg.FFprobePath, fc.FFprobePath)
	setString(&cfg.FFmpegPath, fc.FFmpegPath)
	setBool(&cfg.DryRun, fc.DryRun)
	setBool(&cfg.Verbose, fc.Verbose)
	setString(&cfg.LogFile, fc.LogFile)
	setString(&cfg.ReportFile, fc.ReportFile)
	if fc.ColorMode != nil {
		v := colorModeValue{&cfg.ColorMode}
		if err := v.Set(*fc.ColorMode); err != nil {
			return err
		}
	}
	return nil
}

// replayChanged copies every flag the user set on src onto a fresh flag set
// bound to cfg, so flags win over file and environment values.
func replayChanged(src *pflag.FlagSet, cfg *Config) error {
	dst := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	BindFlags(dst, cfg)
	var firstErr error
	src.Visit(func(f *pflag.Flag) {
		if firstErr != nil || dst.Lookup(f.Name) == nil {
			return
		}
		if err := dst.Set(f.Name, f.Value.String()); err != nil {
			firstErr = fmt.Errorf("flag --%s: %w", f.Name, err)
		}
	})
	return firstErr
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
