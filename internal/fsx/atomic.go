package fsx

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path through a temp file in the same
// directory and a rename, replacing any existing file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := (OS{}).EnsureFolder(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &FileSystemError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return &FileSystemError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return &FileSystemError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &FileSystemError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &FileSystemError{Op: "write", Path: path, Err: err}
	}
	if err := renameFunc(tmpName, path); err != nil {
		return &FileSystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}
