package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/camsort/internal/media"
)

// Prober is the production Accessor: ffprobe for audio/video, EXIF for
// images.
type Prober struct {
	FFprobe string // ffprobe binary; "ffprobe" when empty.
}

// NewProber returns a Prober using the given ffprobe binary.
func NewProber(ffprobe string) *Prober {
	return &Prober{FFprobe: ffprobe}
}

// Probe implements Accessor.
func (p *Prober) Probe(ctx context.Context, path string, kind media.Kind) (media.File, error) {
	if kind == media.KindImage {
		return ReadPhoto(path)
	}
	out, err := p.run(ctx, path)
	if err != nil {
		return media.File{}, err
	}
	f, err := ParseJSON(out, kind)
	if err != nil {
		return media.File{}, &ProbeError{Path: path, Op: "parse", Err: err}
	}
	f.Path = path
	return f, nil
}

func (p *Prober) run(ctx context.Context, path string) ([]byte, error) {
	bin := p.FFprobe
	if bin == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, &ProbeError{Path: path, Op: "ffprobe", Err: err}
	}
	return out, nil
}

// ParseJSON converts raw ffprobe JSON into a media.File of the given kind.
// Exported for testing without a real ffprobe binary.
//
// Tags come from the container only, with keys lowercased. Stream tags name
// codecs and handlers ("encoder": "H.264"), not cameras, so they never feed
// a bucket. The one stream value used is creation_time, when the container
// has none. FrameRate is read from the first video stream.
func ParseJSON(data []byte, kind media.Kind) (media.File, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return media.File{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	f := media.File{Kind: kind, Tags: make(map[string]string, len(raw.Format.Tags))}
	for k, v := range raw.Format.Tags {
		f.Tags[strings.ToLower(k)] = v
	}

	if d, ok := parseSeconds(raw.Format.Duration); ok {
		f.Duration = d
	} else if kind == media.KindVideo {
		return media.File{}, ErrNoDuration
	}

	ct := f.Tags["creation_time"]
	for i := range raw.Streams {
		st := &raw.Streams[i]
		if ct == "" {
			ct = streamTag(st.Tags, "creation_time")
		}
		if f.FrameRate == 0 && st.CodecType == "video" {
			f.FrameRate = streamRate(st)
		}
	}
	if ct != "" {
		t, err := parseCreationTime(ct)
		if err != nil {
			return media.File{}, fmt.Errorf("creation_time %q: %w", ct, err)
		}
		f.CaptureTime = t
	}
	return f, nil
}

// streamTag looks key up case-insensitively.
func streamTag(tags map[string]string, key string) string {
	for k, v := range tags {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// streamRate prefers the average frame rate and falls back to the base
// rate. Zero means unknown.
func streamRate(st *ffprobeStream) float64 {
	if r, ok := parseRate(st.AvgFrameRate); ok {
		return r
	}
	if r, ok := parseRate(st.RFrameRate); ok {
		return r
	}
	return 0
}

// parseRate reads ffprobe rationals such as "30000/1001" as well as plain
// numbers. "0/0" and other non-positive values are rejected.
func parseRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	num, den, frac := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d := 1.0
	if frac {
		if d, err = strconv.ParseFloat(den, 64); err != nil || d == 0 {
			return 0, false
		}
	}
	if r := n / d; r > 0 {
		return r, true
	}
	return 0, false
}

// parseCreationTime accepts ffprobe's "2006-01-02T15:04:05.000000Z" and any
// RFC 3339 variant; fractional seconds are optional when parsing.
func parseCreationTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseSeconds(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return time.Duration(v * float64(time.Second)), true
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Tags       map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index        int               `json:"index"`
	CodecType    string            `json:"codec_type"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	RFrameRate   string            `json:"r_frame_rate"`
	Tags         map[string]string `json:"tags"`
}

var _ Accessor = (*Prober)(nil)
