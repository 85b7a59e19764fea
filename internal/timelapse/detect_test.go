package timelapse

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/backmassage/camsort/internal/media"
)

var t0 = time.Date(2023, 6, 1, 6, 0, 0, 0, time.UTC)

var defaults = Options{MinLength: 100, ToleranceSeconds: 1}

// series returns n photos whose i-th capture time is t0 + offset(i).
func series(n int, offset func(i int) time.Duration) []media.File {
	out := make([]media.File, n)
	for i := range out {
		out[i] = media.File{
			Path:        fmt.Sprintf("/r/Cam_photo/IMG_%04d.JPG", i),
			Kind:        media.KindImage,
			CaptureTime: t0.Add(offset(i)),
		}
	}
	return out
}

func every(d time.Duration) func(int) time.Duration {
	return func(i int) time.Duration { return time.Duration(i) * d }
}

func lens(seqs []Sequence) []int {
	out := make([]int, len(seqs))
	for i, s := range seqs {
		out[i] = s.Len()
	}
	return out
}

func TestDetect_SingleRun(t *testing.T) {
	seqs := Detect(series(150, every(time.Second)), defaults)
	if got := lens(seqs); !reflect.DeepEqual(got, []int{150}) {
		t.Fatalf("lengths = %v, want [150]", got)
	}
	if seqs[0].Interval != 1 {
		t.Errorf("Interval = %d, want 1", seqs[0].Interval)
	}
}

func TestDetect_KeepsGrowingPastMinimum(t *testing.T) {
	if got := lens(Detect(series(200, every(time.Second)), defaults)); !reflect.DeepEqual(got, []int{200}) {
		t.Errorf("lengths = %v, want [200]", got)
	}
}

func TestDetect_JumpSplitsBelowMinimum(t *testing.T) {
	// 1s interval, a 5s jump after photo 60: runs of 60 and 90.
	photos := series(150, func(i int) time.Duration {
		d := time.Duration(i) * time.Second
		if i >= 60 {
			d += 4 * time.Second
		}
		return d
	})
	if seqs := Detect(photos, defaults); len(seqs) != 0 {
		t.Errorf("lengths = %v, want none", lens(seqs))
	}
	seqs := Detect(photos, Options{MinLength: 60, ToleranceSeconds: 1})
	if got := lens(seqs); !reflect.DeepEqual(got, []int{60, 90}) {
		t.Errorf("min 60: lengths = %v, want [60 90]", got)
	}
	if seqs[1].Photos[0].Path != photos[60].Path {
		t.Errorf("second run starts at %s, want the breaking photo", seqs[1].Photos[0].Path)
	}
}

func TestDetect_ToleranceAndTruncation(t *testing.T) {
	// Deltas alternate 2.9s and 3.0s; truncated they are 2 and 3, within 1.
	photos := series(120, func(i int) time.Duration {
		return time.Duration(i/2)*5900*time.Millisecond + time.Duration(i%2)*2900*time.Millisecond
	})
	if got := lens(Detect(photos, defaults)); !reflect.DeepEqual(got, []int{120}) {
		t.Errorf("lengths = %v, want [120]", got)
	}
	if got := lens(Detect(photos, Options{MinLength: 100, ToleranceSeconds: 0})); len(got) != 0 {
		t.Errorf("zero tolerance: lengths = %v, want none", got)
	}
}

func TestDetect_IntervalFixedByFirstDelta(t *testing.T) {
	// A slow drift of +1s every 40 photos must break once it exceeds tolerance.
	photos := series(130, func(i int) time.Duration {
		var d time.Duration
		for k := 1; k <= i; k++ {
			d += time.Duration(10+(k-1)/40) * time.Second
		}
		return d
	})
	seqs := Detect(photos, Options{MinLength: 50, ToleranceSeconds: 1})
	// Deltas: 40×10s, 40×11s, 40×12s, 9×13s. Interval 10 tolerates 11, breaks at 12.
	if got := lens(seqs); !reflect.DeepEqual(got, []int{81}) {
		t.Errorf("lengths = %v, want [81]", got)
	}
}

func TestDetect_OrderAndDeterminism(t *testing.T) {
	photos := series(100, every(time.Second))
	rev := make([]media.File, len(photos))
	for i := range photos {
		rev[len(photos)-1-i] = photos[i]
	}
	a := Detect(photos, defaults)
	b := Detect(rev, defaults)
	if !reflect.DeepEqual(a, b) {
		t.Error("Detect depends on input order")
	}
	if len(a) != 1 || a[0].Photos[0].Path != photos[0].Path {
		t.Errorf("unexpected result %v", lens(a))
	}
}

func TestDetect_SkipsUndated(t *testing.T) {
	photos := series(100, every(time.Second))
	photos = append(photos, media.File{Path: "/r/Cam_photo/undated.jpg", Kind: media.KindImage})
	if got := lens(Detect(photos, defaults)); !reflect.DeepEqual(got, []int{100}) {
		t.Errorf("lengths = %v, want [100]", got)
	}
	if got := Detect(nil, defaults); len(got) != 0 {
		t.Errorf("empty input: %v", got)
	}
}

func TestNamer_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "timelapse_1"), 0o755); err != nil {
		t.Fatal(err)
	}
	other := t.TempDir()
	n := NewNamer()
	got := []string{n.Next(dir), n.Next(other), n.Next(dir)}
	want := []string{
		filepath.Join(dir, "timelapse_2"),
		filepath.Join(other, "timelapse_3"),
		filepath.Join(dir, "timelapse_4"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}
