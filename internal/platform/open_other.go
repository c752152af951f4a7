//go:build !unix

package platform

import "os"

// OpenFileNoFollow opens a file under root without following symlinks.
// Returns ErrSymlink if the path is a symbolic link, or if it was replaced
// by a different file between the check and the open.
func OpenFileNoFollow(root *os.Root, name string) (*os.File, error) {
	before, err := lstatNoSymlink(root, name)
	if err != nil {
		return nil, err
	}
	f, err := root.Open(name)
	if err != nil {
		return nil, err
	}
	if err := checkSameFile(f, before); err != nil {
		_ = f.Close() //nolint:errcheck // the identity error is what matters
		return nil, err
	}
	return f, nil
}
