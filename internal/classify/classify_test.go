package classify

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/backmassage/camsort/internal/media"
)

func TestClassify(t *testing.T) {
	const short = 60 * time.Second
	tests := []struct {
		name string
		file media.File
		want string
	}{
		{
			"photo with model",
			media.File{Kind: media.KindImage, Tags: map[string]string{"model": "Canon EOS R5"}},
			"Canon_EOS_R5_photo",
		},
		{
			"photo with slash in model",
			media.File{Kind: media.KindImage, Tags: map[string]string{"model": "DJI FC3170/Mini"}},
			"DJI_FC3170_Mini_photo",
		},
		{"photo without EXIF", media.File{Kind: media.KindImage}, "Pictures"},
		{
			"audio with encoder",
			media.File{Kind: media.KindAudio, Tags: map[string]string{"encoded_by": "Zoom H1n"}},
			"Zoom_H1n_audio",
		},
		{"audio untagged", media.File{Kind: media.KindAudio}, "Unknown_audio"},
		{
			"short video",
			media.File{Kind: media.KindVideo, Duration: 45 * time.Second, Tags: map[string]string{"encoder": "Cam1"}},
			filepath.Join("Cam1_video", "footage"),
		},
		{
			"long video",
			media.File{Kind: media.KindVideo, Duration: 90 * time.Second, Tags: map[string]string{"encoder": "Cam1"}},
			"Cam1_video",
		},
		{
			"exactly threshold is not short",
			media.File{Kind: media.KindVideo, Duration: 60 * time.Second, Tags: map[string]string{"encoder": "Cam1"}},
			"Cam1_video",
		},
		{
			"quicktime model wins over encoder",
			media.File{Kind: media.KindVideo, Duration: 2 * time.Minute, Tags: map[string]string{
				"com.apple.quicktime.model": "iPhone 14", "encoder": "H.264",
			}},
			"iPhone_14_video",
		},
		{
			"video untagged",
			media.File{Kind: media.KindVideo, Duration: 2 * time.Minute},
			"Unknown_video",
		},
		{
			"zero duration is footage",
			media.File{Kind: media.KindVideo, Tags: map[string]string{"encoder": "Cam1"}},
			filepath.Join("Cam1_video", "footage"),
		},
		{
			"high rate ignored without split",
			media.File{Kind: media.KindVideo, Duration: 2 * time.Minute, FrameRate: 120, Tags: map[string]string{"encoder": "Cam1"}},
			"Cam1_video",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.file, Rules{ShortFootage: short}).Folder(); got != tt.want {
				t.Errorf("Folder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_SplitFPS(t *testing.T) {
	rules := Rules{ShortFootage: 60 * time.Second, SplitFPS: true}
	tests := []struct {
		fps      float64
		duration time.Duration
		want     string
	}{
		{119.88, 2 * time.Minute, filepath.Join("Cam1_video", "120fps")},
		{120, 2 * time.Minute, filepath.Join("Cam1_video", "120fps")},
		{239.76, 2 * time.Minute, filepath.Join("Cam1_video", "240fps")},
		{120, 10 * time.Second, filepath.Join("Cam1_video", "120fps")},
		{59.94, 2 * time.Minute, "Cam1_video"},
		{60, 10 * time.Second, filepath.Join("Cam1_video", "footage")},
		{100, 2 * time.Minute, "Cam1_video"},
		{180, 2 * time.Minute, "Cam1_video"},
		{0, 2 * time.Minute, "Cam1_video"},
	}
	for _, tt := range tests {
		f := media.File{
			Kind: media.KindVideo, Duration: tt.duration, FrameRate: tt.fps,
			Tags: map[string]string{"encoder": "Cam1"},
		}
		if got := Classify(f, rules).Folder(); got != tt.want {
			t.Errorf("fps %v, %v: Folder() = %q, want %q", tt.fps, tt.duration, got, tt.want)
		}
	}

	photo := media.File{Kind: media.KindImage, FrameRate: 120, Tags: map[string]string{"model": "GoPro"}}
	if got := Classify(photo, rules).Folder(); got != "GoPro_photo" {
		t.Errorf("photo Folder() = %q", got)
	}
}

func TestSanitizeTag_NFC(t *testing.T) {
	decomposed := "Cafe\u0301 Cam" // e + combining acute
	if got := SanitizeTag(decomposed); got != "Caf\u00e9_Cam" {
		t.Errorf("SanitizeTag = %q", got)
	}
	if got := SanitizeTag("  GoPro  "); got != "GoPro" {
		t.Errorf("SanitizeTag trims: %q", got)
	}
}

func TestPlace(t *testing.T) {
	root := "/cards"
	f := media.File{
		Path: "/cards/DCIM/clip.mp4", Kind: media.KindVideo,
		Duration: 45 * time.Second, Tags: map[string]string{"encoder": "Cam1"},
	}
	rules := Rules{ShortFootage: 60 * time.Second}
	p := Place(root, f, rules)
	if p.DestDir != "/cards/Cam1_video/footage" || p.InPlace {
		t.Errorf("Place = %+v", p)
	}
	if p.Dest() != "/cards/Cam1_video/footage/clip.mp4" {
		t.Errorf("Dest = %q", p.Dest())
	}

	f.Path = "/cards/Cam1_video/footage/clip.mp4"
	if p := Place(root, f, rules); !p.InPlace {
		t.Errorf("file already in bucket should be in place: %+v", p)
	}
}
