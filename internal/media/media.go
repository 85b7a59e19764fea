// Package media defines the file model shared by every stage: the three
// media kinds, recognized extensions, the reserved folder names of derived
// artifacts, and discovery over a tree.
package media

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind is the coarse media class of a file.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Reserved names inside the organized tree.
const (
	MulticamDir    = "multicams"  // Symlink groups live under <root>/multicams.
	GroupPrefix    = "Group_"     // multicams/Group_N.
	SequencePrefix = "timelapse_" // Isolated photo sequences.
	RejectedDir    = "rejected"   // Frames dropped by the filter, inside a sequence.
	FootageDir     = "footage"    // Short videos, inside a video bucket.
	UntaggedPhotos = "Pictures"   // Images with no camera model.
	UnknownTag     = "Unknown"    // Audio/video with no identifying tag.
)

// Supported extensions (lowercase, with leading dot).
var extensions = map[string]Kind{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".heic": KindImage,
	".mp3":  KindAudio,
	".mp4":  KindVideo,
	".mov":  KindVideo,
}

// KindOf returns the kind for path's extension and whether it is supported.
func KindOf(path string) (Kind, bool) {
	k, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

// IsFrame reports whether path is a JPEG, the only format the frame filter
// and assembler consume.
func IsFrame(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// IsSequenceDir reports whether name is a timelapse_* container name.
func IsSequenceDir(name string) bool {
	return strings.HasPrefix(name, SequencePrefix)
}

// File is one discovered media file with whatever metadata has been read.
// Identity is the path.
type File struct {
	Path        string
	Kind        Kind
	CaptureTime time.Time         // Zero when unknown.
	Duration    time.Duration     // Audio/video only; zero when unknown.
	FrameRate   float64           // Video only, frames per second; zero when unknown.
	Tags        map[string]string // Lowercased keys: "model" for EXIF, container tags otherwise.
}

// FirstTag returns the first non-empty tag among keys, trimmed.
func (f File) FirstTag(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(f.Tags[strings.ToLower(k)]); v != "" {
			return v
		}
	}
	return ""
}

// HasCaptureTime reports whether the capture time is known.
func (f File) HasCaptureTime() bool { return !f.CaptureTime.IsZero() }

// Dir returns the parent folder of the file.
func (f File) Dir() string { return filepath.Dir(f.Path) }

// Name returns the base name of the file.
func (f File) Name() string { return filepath.Base(f.Path) }
