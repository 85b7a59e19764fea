package multicam

import (
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/backmassage/camsort/internal/media"
)

var t0 = time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)

func video(path string, offset time.Duration) media.File {
	return media.File{Path: path, Kind: media.KindVideo, CaptureTime: t0.Add(offset)}
}

func groupPaths(gs []Group) [][]string {
	out := make([][]string, len(gs))
	for i, g := range gs {
		out[i] = g.Paths()
	}
	return out
}

func TestDisjointSet(t *testing.T) {
	d := NewDisjointSet(6)
	if !d.Union(0, 1) || !d.Union(2, 3) || !d.Union(1, 3) {
		t.Fatal("unions of distinct sets should report true")
	}
	if d.Union(0, 2) {
		t.Error("union within one set should report false")
	}
	want := [][]int{{0, 1, 2, 3}, {4}, {5}}
	if got := d.Sets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sets = %v, want %v", got, want)
	}
}

func TestFindGroups_WindowAndFolders(t *testing.T) {
	videos := []media.File{
		video("/r/A_video/a1.mp4", 0),
		video("/r/B_video/b1.mp4", 8*time.Second),
		video("/r/C_video/c1.mp4", 17*time.Second), // within 10s of b1 only: transitive
		video("/r/A_video/a2.mp4", 3*time.Second),  // same folder as a1, but near b1
		video("/r/A_video/a3.mp4", time.Hour),
		video("/r/A_video/a4.mp4", time.Hour+5*time.Second), // same folder only
		{Path: "/r/B_video/nodate.mp4", Kind: media.KindVideo},
	}
	got := groupPaths(FindGroups(videos, 10*time.Second))
	want := [][]string{{
		"/r/A_video/a1.mp4", "/r/A_video/a2.mp4", "/r/B_video/b1.mp4", "/r/C_video/c1.mp4",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("groups = %v, want %v", got, want)
	}
}

func TestFindGroups_BoundaryInclusive(t *testing.T) {
	videos := []media.File{
		video("/r/A/x.mp4", 0),
		video("/r/B/y.mp4", 10*time.Second),
		video("/r/C/z.mp4", 30*time.Second+time.Millisecond),
		video("/r/D/w.mp4", 40*time.Second+2*time.Millisecond),
	}
	got := groupPaths(FindGroups(videos, 10*time.Second))
	want := [][]string{{"/r/A/x.mp4", "/r/B/y.mp4"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("groups = %v, want %v", got, want)
	}
}

func TestFindGroups_SameFolderNeverLinked(t *testing.T) {
	var videos []media.File
	for i := 0; i < 5; i++ {
		videos = append(videos, video(filepath.Join("/r/Cam_video", string(rune('a'+i))+".mp4"), time.Duration(i)*time.Second))
	}
	if gs := FindGroups(videos, 10*time.Second); len(gs) != 0 {
		t.Errorf("same-folder videos grouped: %v", groupPaths(gs))
	}
}

func TestFindGroups_OrderIndependent(t *testing.T) {
	base := []media.File{
		video("/r/A/1.mp4", 0),
		video("/r/B/2.mp4", 9*time.Second),
		video("/r/C/3.mp4", 18*time.Second),
		video("/r/A/4.mp4", 5*time.Minute),
		video("/r/B/5.mp4", 5*time.Minute+2*time.Second),
		video("/r/C/6.mp4", 20*time.Minute),
	}
	want := groupPaths(FindGroups(base, 10*time.Second))
	if len(want) != 2 {
		t.Fatalf("expected 2 groups, got %v", want)
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]media.File(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := groupPaths(FindGroups(shuffled, 10*time.Second)); !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d: got %v, want %v", i, got, want)
		}
	}
}

func TestDisjointSet_PairOrderIndependent(t *testing.T) {
	pairs := [][2]int{{0, 1}, {2, 3}, {1, 2}, {5, 6}, {7, 5}}
	want := [][]int{{0, 1, 2, 3}, {4}, {5, 6, 7}}
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		p := append([][2]int(nil), pairs...)
		rng.Shuffle(len(p), func(a, b int) { p[a], p[b] = p[b], p[a] })
		d := NewDisjointSet(8)
		for _, e := range p {
			d.Union(e[0], e[1])
		}
		if got := d.Sets(); !reflect.DeepEqual(got, want) {
			t.Fatalf("order %v: Sets = %v, want %v", p, got, want)
		}
	}
}

func TestPlanLinks(t *testing.T) {
	groups := []Group{
		{Members: []media.File{
			video("/r/A_video/GX01.MP4", 0),
			video("/r/B_video/GX01.MP4", time.Second),
			video("/r/C_video/c.mov", 2*time.Second),
		}},
		{Members: []media.File{
			video("/r/A_video/later.mp4", time.Hour),
			video("/r/B_video/later2.mp4", time.Hour),
		}},
	}
	plans, err := PlanLinks("/r", groups)
	if err != nil {
		t.Fatal(err)
	}
	want := []LinkPlan{
		{1, "/r/A_video/GX01.MP4", "/r/multicams/Group_1/GX01.MP4"},
		{1, "/r/B_video/GX01.MP4", "/r/multicams/Group_1/B_video_GX01.MP4"},
		{1, "/r/C_video/c.mov", "/r/multicams/Group_1/c.mov"},
		{2, "/r/A_video/later.mp4", "/r/multicams/Group_2/later.mp4"},
		{2, "/r/B_video/later2.mp4", "/r/multicams/Group_2/later2.mp4"},
	}
	if !reflect.DeepEqual(plans, want) {
		t.Errorf("plans =\n%v\nwant\n%v", plans, want)
	}
}

func TestLinkNamer_DupSuffix(t *testing.T) {
	n := newLinkNamer()
	got := []string{
		n.resolve("/a/x/clip.mp4"),
		n.resolve("/b/x/clip.mp4"),
		n.resolve("/c/x/clip.mp4"),
		n.resolve("/a/x/clip.mp4"),
	}
	want := []string{"clip.mp4", "x_clip.mp4", "x_clip - dup1.mp4", "clip.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}
