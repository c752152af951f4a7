package pack

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CopyStats summarizes a CopyDir run.
type CopyStats struct {
	// Written is the number of files written.
	Written int

	// Skipped is the number of files left alone because they already existed.
	Skipped int

	// Bytes is the total number of bytes written.
	Bytes uint64
}

// CopyDir extracts entries into destDir, creating it and any parent
// directories as needed.
//
// Entry paths must be valid fs paths (slash-separated, relative, no "."
// or ".." elements); anything else fails with ErrInvalidPath before any
// file is written. When several entries share a path the last one wins.
//
// Files are written atomically using temp files and renames. By default
// existing files are skipped (use CopyWithOverwrite to replace them).
func (r *Reader) CopyDir(ctx context.Context, destDir string, opts ...CopyOption) (CopyStats, error) {
	cfg := copyConfig{workers: defaultCopyWorkers}
	for _, opt := range opts {
		opt(&cfg)
	}
	if destDir == "" {
		return CopyStats{}, fmt.Errorf("%w: empty destination", ErrInvalidArgument)
	}

	entries, err := r.collectCopyEntries(cfg.prefix)
	if err != nil {
		return CopyStats{}, err
	}
	if len(entries) == 0 {
		return CopyStats{}, nil
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return CopyStats{}, fmt.Errorf("create destination %s: %w", destDir, err)
	}

	var (
		mu    sync.Mutex
		stats CopyStats
	)
	tally := func(e *Entry, written bool, n int) {
		mu.Lock()
		defer mu.Unlock()
		if written {
			stats.Written++
			stats.Bytes += uint64(n)
		} else {
			stats.Skipped++
		}
		reportProgress(cfg.progress, StageExtracting, e.Path(), stats.Bytes, stats.Written+stats.Skipped, len(entries))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(cfg.workers, 1))
	for _, e := range entries {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			written, n, err := r.copyEntry(destDir, e, cfg.overwrite)
			if err != nil {
				return err
			}
			tally(e, written, n)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return stats, err
	}

	r.log().Debug("entries extracted", "dest", destDir, "written", stats.Written, "skipped", stats.Skipped, "bytes", stats.Bytes)
	return stats, nil
}

// collectCopyEntries returns the entries to extract, one per distinct path
// (the last one stored), in order of that last occurrence.
func (r *Reader) collectCopyEntries(prefix string) ([]*Entry, error) {
	last := make(map[string]int)
	var selected []*Entry
	for e := range r.EntriesWithPrefix(prefix) {
		if !fs.ValidPath(e.Path()) || e.Path() == "." {
			return nil, &fs.PathError{Op: "copy", Path: e.Path(), Err: ErrInvalidPath}
		}
		if i, ok := last[e.Path()]; ok {
			selected[i] = nil
		}
		last[e.Path()] = len(selected)
		selected = append(selected, e)
	}

	out := selected[:0]
	for _, e := range selected {
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// copyEntry writes one entry below destDir. It reports whether the file
// was written and how many bytes it holds.
func (r *Reader) copyEntry(destDir string, e *Entry, overwrite bool) (bool, int, error) {
	rel := filepath.FromSlash(e.Path())

	root, err := os.OpenRoot(destDir)
	if err != nil {
		return false, 0, fmt.Errorf("open destination root %s: %w", destDir, err)
	}
	defer root.Close()

	if !overwrite {
		if _, err := root.Lstat(rel); err == nil {
			return false, 0, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, 0, fmt.Errorf("stat %s: %w", e.Path(), err)
		}
	}

	data, err := r.Read(e)
	if err != nil {
		return false, 0, err
	}

	if err := root.MkdirAll(filepath.Dir(rel), 0o750); err != nil {
		return false, 0, fmt.Errorf("create directory for %s: %w", e.Path(), err)
	}
	if err := writeFileAtomic(root, rel, data); err != nil {
		return false, 0, fmt.Errorf("write %s: %w", e.Path(), err)
	}
	return true, len(data), nil
}

// writeFileAtomic writes data to a temp file next to rel and renames it
// into place, so partially written files are never visible at rel.
func writeFileAtomic(root *os.Root, rel string, data []byte) error {
	tmp, tmpRel, err := createTempFile(root, filepath.Dir(rel), ".pack-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()         //nolint:errcheck // best-effort cleanup
			_ = root.Remove(tmpRel) //nolint:errcheck // best-effort cleanup
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := root.Chmod(tmpRel, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	// Refuse to replace a directory with a file.
	if info, err := root.Lstat(rel); err == nil && info.IsDir() {
		return &fs.PathError{Op: "copy", Path: rel, Err: errors.New("is a directory")}
	}
	if err := root.Rename(tmpRel, rel); err != nil {
		// On Windows, rename fails if the destination exists.
		_ = root.Remove(rel) //nolint:errcheck // rename reports the real failure
		if err := root.Rename(tmpRel, rel); err != nil {
			return fmt.Errorf("rename: %w", err)
		}
	}
	success = true
	return nil
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
