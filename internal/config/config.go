// Package config holds runtime configuration: defaults, CLI flag binding,
// config-file and environment overlays, and validation. Every threshold the
// organizer uses lives here, with the hand-tuned values as defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// CodecAuto lets the assembler pick h264_videotoolbox when ffmpeg offers it
// and libx264 otherwise.
const CodecAuto = "auto"

// ColorRange is a closed box in BGR space. A pixel is inside when every
// channel lies within [Lower, Upper].
type ColorRange struct {
	Lower [3]uint8 `yaml:"lower" toml:"lower" json:"lower"`
	Upper [3]uint8 `yaml:"upper" toml:"upper" json:"upper"`
}

// Contains reports whether the BGR pixel lies inside the range.
func (r ColorRange) Contains(b, g, rr uint8) bool {
	return b >= r.Lower[0] && b <= r.Upper[0] &&
		g >= r.Lower[1] && g <= r.Upper[1] &&
		rr >= r.Lower[2] && rr <= r.Upper[2]
}

// DefaultObstructionColors are the two skin-tone boxes (BGR) that spot a
// hand over the lens.
func DefaultObstructionColors() []ColorRange {
	return []ColorRange{
		{Lower: [3]uint8{112, 141, 206}, Upper: [3]uint8{131, 161, 221}},
		{Lower: [3]uint8{59, 75, 117}, Upper: [3]uint8{79, 93, 136}},
	}
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by the environment, an optional config file, and CLI flags (in
// that order of increasing precedence), and then passed by pointer to the
// packages that need it.
type Config struct {
	// Root of the tree to organize (positional arg).
	Root string

	// Stage switches.
	Classify  bool // Default: true.
	Multicam  bool // Default: true.
	Timelapse bool // Default: true. Detect, isolate and filter sequences.
	Assemble  bool // Default: true. Encode each filtered sequence.

	// Classification.
	ShortFootageSeconds float64 // Default: 60. Shorter videos go to footage/.
	FPSSplit            bool    // Default: false. 120/240 fps video goes to 120fps/ or 240fps/.

	// Multicam grouping.
	ProximityWindowSeconds float64 // Default: 10.

	// Sequence detection.
	SequenceMinLength        int // Default: 100 photos.
	IntervalToleranceSeconds int // Default: 1.

	// Frame filtering.
	DuplicatePixelTolerance     float64      // Default: 0.01 (1% of pixels).
	DuplicateLuminanceCutoff    int          // Default: 25. Gray diff above this counts as changed.
	ObstructionPixelThreshold   int          // Default: 5000 pixels.
	ObstructionPercentThreshold float64      // Default: 0 (disabled).
	ObstructionColors           []ColorRange // Default: DefaultObstructionColors().
	AutoRotate                  bool         // Default: true. Rotate portrait frames to landscape.

	// Assembly.
	FrameRate    int    // Default: 60.
	VideoCodec   string // Default: "auto".
	VideoBitrate string // Default: "100M".

	// External tools.
	FFprobePath string // Default: "ffprobe".
	FFmpegPath  string // Default: "ffmpeg".

	// Behavior and display.
	DryRun     bool
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	ReportFile string    // Optional report path (.yaml, .yml or .json).
	ConfigFile string    // Optional config file path (.yaml, .yml or .toml).
}

// DefaultConfig returns a Config with the calibrated default thresholds.
func DefaultConfig() Config {
	return Config{
		Classify:                    true,
		Multicam:                    true,
		Timelapse:                   true,
		Assemble:                    true,
		ShortFootageSeconds:         60,
		ProximityWindowSeconds:      10,
		SequenceMinLength:           100,
		IntervalToleranceSeconds:    1,
		DuplicatePixelTolerance:     0.01,
		DuplicateLuminanceCutoff:    25,
		ObstructionPixelThreshold:   5000,
		ObstructionPercentThreshold: 0,
		ObstructionColors:           DefaultObstructionColors(),
		AutoRotate:                  true,
		FrameRate:                   60,
		VideoCodec:                  CodecAuto,
		VideoBitrate:                "100M",
		FFprobePath:                 "ffprobe",
		FFmpegPath:                  "ffmpeg",
		ColorMode:                   ColorAuto,
	}
}

// ProximityWindow returns the multicam window as a duration.
func (c *Config) ProximityWindow() time.Duration {
	return time.Duration(c.ProximityWindowSeconds * float64(time.Second))
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and threshold ranges.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.ShortFootageSeconds < 0 {
		return errors.New("short footage seconds must not be negative")
	}
	if c.ProximityWindowSeconds < 0 {
		return errors.New("proximity window must not be negative")
	}
	if c.SequenceMinLength < 2 {
		return fmt.Errorf("sequence min length must be at least 2 (got %d)", c.SequenceMinLength)
	}
	if c.IntervalToleranceSeconds < 0 {
		return errors.New("interval tolerance must not be negative")
	}
	if c.DuplicatePixelTolerance < 0 || c.DuplicatePixelTolerance > 1 {
		return fmt.Errorf("duplicate pixel tolerance must be within [0, 1] (got %g)", c.DuplicatePixelTolerance)
	}
	if c.DuplicateLuminanceCutoff < 0 || c.DuplicateLuminanceCutoff > 255 {
		return fmt.Errorf("duplicate luminance cutoff must be within [0, 255] (got %d)", c.DuplicateLuminanceCutoff)
	}
	if c.ObstructionPixelThreshold < 0 {
		return errors.New("obstruction pixel threshold must not be negative")
	}
	if c.ObstructionPercentThreshold < 0 || c.ObstructionPercentThreshold > 100 {
		return fmt.Errorf("obstruction percent threshold must be within [0, 100] (got %g)", c.ObstructionPercentThreshold)
	}
	for i, r := range c.ObstructionColors {
		for ch := 0; ch < 3; ch++ {
			if r.Lower[ch] > r.Upper[ch] {
				return fmt.Errorf("obstruction color %d: lower bound exceeds upper bound on channel %d", i, ch)
			}
		}
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive (got %d)", c.FrameRate)
	}
	if strings.TrimSpace(c.VideoCodec) == "" {
		return errors.New("video codec must not be empty (use 'auto' to detect)")
	}
	if strings.TrimSpace(c.VideoBitrate) == "" {
		return errors.New("video bitrate must not be empty")
	}
	if c.FFprobePath == "" || c.FFmpegPath == "" {
		return errors.New("ffprobe and ffmpeg paths must not be empty")
	}
	return nil
}

// ValidateRoot resolves the run-level precondition: the root must exist and
// be a directory. Failing here stops the run before anything is touched.
func (c *Config) ValidateRoot() error {
	if c.Root == "" {
		return errors.New("need a root directory")
	}
	fi, err := os.Stat(c.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("root %q does not exist", c.Root)
		}
		return fmt.Errorf("cannot stat root %q: %w", c.Root, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("root %q is not a directory", c.Root)
	}
	return nil
}
