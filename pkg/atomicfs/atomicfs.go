// Package atomicfs writes files through a temporary neighbor that is
// renamed into place on Close, so readers never observe partial output.
package atomicfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const tmpSuffix = ".tmp-"

type File struct {
	tmp  *os.File
	path string
	mode os.FileMode
}

// Create opens a temporary file next to path. The data lands under path
// only on Close; Discard drops it.
func Create(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("atomicfs: resolve %s: %w", path, err)
	}
	dir, base := filepath.Split(abs)

	tmp, err := os.CreateTemp(dir, base+tmpSuffix)
	if err != nil {
		return nil, fmt.Errorf("atomicfs: create temp file: %w", err)
	}
	return &File{tmp: tmp, path: abs, mode: 0o644}, nil
}

func (f *File) Write(data []byte) (int, error) {
	return f.tmp.Write(data)
}

// Discard drops the temporary file. After a successful Close it is a
// no-op, so it is safe to defer.
func (f *File) Discard() error {
	if f.tmp == nil {
		return nil
	}
	tmp := f.tmp
	f.tmp = nil

	err := tmp.Close()
	if rmErr := os.Remove(tmp.Name()); err == nil {
		err = rmErr
	}
	return err
}

// Close commits the file under its final name.
func (f *File) Close() error {
	if f.tmp == nil {
		return errors.New("atomicfs: file already closed")
	}
	tmp := f.tmp
	f.tmp = nil

	if err := tmp.Chmod(f.mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("atomicfs: chmod %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("atomicfs: close %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("atomicfs: rename %s: %w", f.path, err)
	}
	return nil
}

var _ io.WriteCloser = (*File)(nil)
