// Package platform wraps the OS-specific parts of reading source trees.
package platform

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/meigma/pack/internal/packtype"
)

// ErrSymlink is returned when attempting to open a symbolic link.
var ErrSymlink = packtype.ErrSymlink

// ReadFileNoFollow reads a regular file under root in full, refusing
// symlinks. The read fails if the file grows beyond limit bytes; a limit
// <= 0 disables the check.
func ReadFileNoFollow(root *os.Root, name string, limit int64) ([]byte, error) {
	f, err := OpenFileNoFollow(root, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", name)
	}

	var r io.Reader = f
	if limit > 0 {
		if info.Size() > limit {
			return nil, fmt.Errorf("%w: %s is %d bytes", packtype.ErrSizeOverflow, name, info.Size())
		}
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s grew past %d bytes", packtype.ErrSizeOverflow, name, limit)
	}
	return data, nil
}

// lstatNoSymlink stats name without following it and rejects symlinks.
func lstatNoSymlink(root *os.Root, name string) (fs.FileInfo, error) {
	info, err := root.Lstat(name)
	if err != nil {
		return nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, ErrSymlink
	}
	return info, nil
}

// checkSameFile fails with ErrSymlink unless f is the file described by before.
func checkSameFile(f *os.File, before fs.FileInfo) error {
	after, err := f.Stat()
	if err != nil {
		return err
	}
	if !os.SameFile(before, after) {
		return fmt.Errorf("%w: %s changed while opening", ErrSymlink, before.Name())
	}
	return nil
}
