// Package fsx is the file-system boundary: moves, lazy folder creation and
// symlinks, all idempotent by path. Every failure is a *FileSystemError.
package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Swappable in tests to simulate EXDEV and other rename failures.
var renameFunc = os.Rename

// ErrDestinationExists is wrapped when a different file already occupies the
// destination of a move or link.
var ErrDestinationExists = errors.New("destination exists")

// FileSystem is the set of mutations the organizer performs.
type FileSystem interface {
	// Move relocates src into destDir keeping its base name and returns the
	// new path. moved is false when src already lives in destDir.
	Move(src, destDir string) (dest string, moved bool, err error)
	// EnsureFolder creates dir and any parents; existing folders are fine.
	EnsureFolder(dir string) error
	// Link creates a symlink at link pointing to target. created is false
	// when an identical link already exists.
	Link(target, link string) (created bool, err error)
}

// FileSystemError reports a failed file-system operation.
type FileSystemError struct {
	Op   string // "move", "mkdir", "link", "copy".
	Path string
	Dest string
	Err  error
}

func (e *FileSystemError) Error() string {
	if e.Dest != "" {
		return fmt.Sprintf("%s %q -> %q: %v", e.Op, e.Path, e.Dest, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// IsFileSystemError reports whether err wraps a *FileSystemError.
func IsFileSystemError(err error) bool {
	var e *FileSystemError
	return errors.As(err, &e)
}

// OS is the FileSystem backed by the real disk.
type OS struct{}

// Move implements FileSystem. A rename that fails with EXDEV falls back to
// copy then remove, keeping mode and modification time.
func (OS) Move(src, destDir string) (string, bool, error) {
	dest := filepath.Join(destDir, filepath.Base(src))
	if samePath(filepath.Dir(src), destDir) {
		return src, false, nil
	}
	if err := (OS{}).EnsureFolder(destDir); err != nil {
		return "", false, err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", false, &FileSystemError{Op: "move", Path: src, Dest: dest, Err: err}
	}
	if destInfo, err := os.Lstat(dest); err == nil {
		if os.SameFile(srcInfo, destInfo) {
			return dest, false, nil
		}
		return "", false, &FileSystemError{Op: "move", Path: src, Dest: dest, Err: ErrDestinationExists}
	} else if !os.IsNotExist(err) {
		return "", false, &FileSystemError{Op: "move", Path: src, Dest: dest, Err: err}
	}

	if err := renameFunc(src, dest); err != nil {
		if !isEXDEV(err) {
			return "", false, &FileSystemError{Op: "move", Path: src, Dest: dest, Err: err}
		}
		if err := copyFile(src, dest, srcInfo); err != nil {
			return "", false, &FileSystemError{Op: "copy", Path: src, Dest: dest, Err: err}
		}
		if err := os.Remove(src); err != nil {
			return "", false, &FileSystemError{Op: "move", Path: src, Dest: dest, Err: err}
		}
	}
	return dest, true, nil
}

// EnsureFolder implements FileSystem.
func (OS) EnsureFolder(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FileSystemError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// Link implements FileSystem. target should be absolute so the link stays
// valid wherever the group folder is opened from.
func (OS) Link(target, link string) (bool, error) {
	if existing, err := os.Readlink(link); err == nil {
		if existing == target {
			return false, nil
		}
		return false, &FileSystemError{Op: "link", Path: target, Dest: link, Err: ErrDestinationExists}
	} else if _, statErr := os.Lstat(link); statErr == nil {
		return false, &FileSystemError{Op: "link", Path: target, Dest: link, Err: ErrDestinationExists}
	}
	if err := (OS{}).EnsureFolder(filepath.Dir(link)); err != nil {
		return false, err
	}
	if err := os.Symlink(target, link); err != nil {
		return false, &FileSystemError{Op: "link", Path: target, Dest: link, Err: err}
	}
	return true, nil
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func copyFile(src, dest string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}

var _ FileSystem = OS{}
