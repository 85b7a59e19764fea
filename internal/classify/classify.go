// Package classify maps each media file to its bucket folder and computes
// where the file must be relocated.
//
// Bucket names follow the camera that produced the file: the EXIF model for
// photos, encoded_by for audio, and the QuickTime model or encoder tag for
// video. Short videos land in a footage/ subfolder of their bucket. With
// frame-rate splitting on, 120 and 240 fps clips go to 120fps/ or 240fps/
// instead, whatever their length.
package classify

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/backmassage/camsort/internal/media"
)

// Tag keys consulted per kind, in priority order.
var (
	imageTagKeys = []string{"model"}
	audioTagKeys = []string{"encoded_by"}
	videoTagKeys = []string{"com.apple.quicktime.model", "encoder"}
)

// Bucket identifies a destination folder. Buckets are created lazily and
// never merged or deleted.
type Bucket struct {
	Kind  media.Kind
	Tag   string // Sanitized; empty only for untagged images.
	Short bool   // Video shorter than the footage threshold.
	FPS   int    // 120 or 240 for split high-rate video, else 0.
}

// Rules holds the classification thresholds.
type Rules struct {
	// ShortFootage is the duration below which a video counts as footage.
	ShortFootage time.Duration
	// SplitFPS routes 120 and 240 fps video into per-rate subfolders.
	SplitFPS bool
}

// highRates are the frame rates SplitFPS recognizes.
var highRates = []int{120, 240}

// Folder returns the bucket's folder name relative to the root, including
// the rate or footage subfolder of a video.
func (b Bucket) Folder() string {
	var name string
	switch b.Kind {
	case media.KindImage:
		if b.Tag == "" {
			return media.UntaggedPhotos
		}
		name = b.Tag + "_photo"
	case media.KindAudio:
		name = b.Tag + "_audio"
	default:
		name = b.Tag + "_video"
	}
	switch {
	case b.FPS > 0:
		return filepath.Join(name, strconv.Itoa(b.FPS)+"fps")
	case b.Short:
		return filepath.Join(name, media.FootageDir)
	}
	return name
}

// Dir returns the absolute bucket folder under root.
func (b Bucket) Dir(root string) string {
	return filepath.Join(root, b.Folder())
}

// Classify returns the bucket for f. A video with a zero duration is short.
func Classify(f media.File, rules Rules) Bucket {
	switch f.Kind {
	case media.KindImage:
		return Bucket{Kind: media.KindImage, Tag: SanitizeTag(f.FirstTag(imageTagKeys...))}
	case media.KindAudio:
		return Bucket{Kind: media.KindAudio, Tag: tagOrUnknown(f.FirstTag(audioTagKeys...))}
	default:
		b := Bucket{
			Kind:  media.KindVideo,
			Tag:   tagOrUnknown(f.FirstTag(videoTagKeys...)),
			Short: f.Duration < rules.ShortFootage,
		}
		if rules.SplitFPS {
			b.FPS = highRate(f.FrameRate)
		}
		return b
	}
}

// highRate returns 120 or 240 when fps rounds to one of them, else 0.
// Only rates above 60 qualify.
func highRate(fps float64) int {
	if fps <= 60 {
		return 0
	}
	r := int(math.Round(fps))
	for _, h := range highRates {
		if r == h {
			return h
		}
	}
	return 0
}

func tagOrUnknown(tag string) string {
	if s := SanitizeTag(tag); s != "" {
		return s
	}
	return media.UnknownTag
}

// SanitizeTag turns a metadata tag into a folder-name fragment: trimmed,
// NFC-normalized, with spaces and slashes replaced by underscores.
func SanitizeTag(tag string) string {
	tag = strings.TrimSpace(norm.NFC.String(tag))
	tag = strings.ReplaceAll(tag, " ", "_")
	tag = strings.ReplaceAll(tag, "/", "_")
	tag = strings.ReplaceAll(tag, string(filepath.Separator), "_")
	return tag
}

// Placement is the relocation decided for one file.
type Placement struct {
	Src     string
	DestDir string
	Bucket  Bucket
	InPlace bool // Src already lives in DestDir.
}

// Dest returns the path the file will have after the move.
func (p Placement) Dest() string {
	return filepath.Join(p.DestDir, filepath.Base(p.Src))
}

// Place classifies f and resolves its destination under root.
func Place(root string, f media.File, rules Rules) Placement {
	b := Classify(f, rules)
	dir := b.Dir(root)
	return Placement{
		Src:     f.Path,
		DestDir: dir,
		Bucket:  b,
		InPlace: filepath.Clean(filepath.Dir(f.Path)) == filepath.Clean(dir),
	}
}
