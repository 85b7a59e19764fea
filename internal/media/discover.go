package media

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is a discovered path and its kind.
type Entry struct {
	Path string
	Kind Kind
}

// WalkErrorFunc receives an error for a path below the walk root. The walk
// continues past it: an unreadable folder is skipped, a file is ignored.
type WalkErrorFunc func(path string, err error)

// Discover walks root and returns every supported media file sorted by path
// for deterministic processing order. It skips hidden entries, symlinks, the
// multicams folder, timelapse_* containers, and rejected/ folders so derived
// artifacts are never classified again.
//
// Only an error on root itself is returned. Errors below it go to onErr,
// which may be nil.
func Discover(root string, onErr WalkErrorFunc) ([]Entry, error) {
	var out []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return tolerate(root, path, d, err, onErr)
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if pruneDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || d.Type()&fs.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}
		if k, ok := KindOf(name); ok {
			out = append(out, Entry{Path: path, Kind: k})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// tolerate turns a WalkDir error below root into a skip.
func tolerate(root, path string, d fs.DirEntry, err error, onErr WalkErrorFunc) error {
	if path == root {
		return err
	}
	if onErr != nil {
		onErr(path, err)
	}
	if d != nil && d.IsDir() {
		return filepath.SkipDir
	}
	return nil
}

func pruneDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		name == MulticamDir ||
		name == RejectedDir ||
		IsSequenceDir(name)
}

// SequenceDirs returns the timelapse_* folders anywhere under root, sorted.
// When root itself is a sequence container it is returned alone. Errors
// below root are handled as in Discover.
func SequenceDirs(root string, onErr WalkErrorFunc) ([]string, error) {
	if IsSequenceDir(filepath.Base(root)) {
		return []string{root}, nil
	}
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return tolerate(root, path, d, err, onErr)
		}
		if !d.IsDir() || path == root {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || name == MulticamDir {
			return filepath.SkipDir
		}
		if IsSequenceDir(name) {
			out = append(out, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Frames returns the JPEG files directly inside dir, sorted by path.
// Hidden files and symlinks are ignored.
func Frames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !e.Type().IsRegular() {
			continue
		}
		if IsFrame(name) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}
