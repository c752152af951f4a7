//go:build unix

package platform

import (
	"errors"
	"os"
	"syscall"
)

// OpenFileNoFollow opens a file under root without following symlinks.
// Returns ErrSymlink if the path is a symbolic link, or if it was replaced
// by a different file between the check and the open.
func OpenFileNoFollow(root *os.Root, name string) (*os.File, error) {
	before, err := lstatNoSymlink(root, name)
	if err != nil {
		return nil, err
	}
	// os.Root follows links that stay inside the root even with O_NOFOLLOW,
	// so ELOOP only covers the final component escaping it.
	f, err := root.OpenFile(name, os.O_RDONLY|syscall.O_NOFOLLOW, 0)
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			return nil, ErrSymlink
		}
		return nil, err
	}
	if err := checkSameFile(f, before); err != nil {
		_ = f.Close() //nolint:errcheck // the identity error is what matters
		return nil, err
	}
	return f, nil
}
