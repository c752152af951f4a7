package pack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meigma/pack/internal/platform"
)

// Create adds every regular file under dir to w.
//
// Files are added in lexical path order with slash-separated paths relative
// to dir, so packing the same tree twice yields the same container. Empty
// directories are not preserved. Symbolic links are skipped, never followed.
//
// The context can be used for cancellation of long-running packing; w keeps
// the records added before the cancellation.
func Create(ctx context.Context, dir string, w *Writer, opts ...CreateOption) error {
	if w == nil {
		return fmt.Errorf("%w: nil writer", ErrInvalidArgument)
	}
	cfg := createConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	maxEntries := cfg.maxEntries
	if maxEntries == 0 {
		maxEntries = DefaultMaxEntries
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	w.log().Info("packing directory", "dir", dir, "compression", w.compression.String())

	// Signal enumeration start
	reportProgress(cfg.progress, StageEnumerating, "", 0, 0, 0)

	added := 0
	var bytesDone uint64
	err = fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			w.log().Debug("skipped symlink", "path", path)
			return nil
		}
		if !d.Type().IsRegular() {
			w.log().Debug("skipped irregular file", "path", path, "type", d.Type().String())
			return nil
		}
		if maxEntries > 0 && added >= maxEntries {
			return fmt.Errorf("%w: more than %d files under %s", ErrTooManyEntries, maxEntries, dir)
		}

		data, err := platform.ReadFileNoFollow(root, filepath.FromSlash(path), cfg.maxFileSize)
		if err != nil {
			if errors.Is(err, ErrSymlink) {
				w.log().Debug("skipped symlink", "path", path)
				return nil
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := w.Add(path, data); err != nil {
			return err
		}
		added++
		bytesDone += uint64(len(data))
		reportProgress(cfg.progress, StageCompressing, path, bytesDone, added, 0)
		return nil
	})
	if err != nil {
		return err
	}

	w.log().Debug("directory packed", "files", added, "bytes", bytesDone, "size", w.Size())
	return nil
}

// reportProgress sends a progress event if a callback is configured.
func reportProgress(fn ProgressFunc, stage ProgressStage, path string, bytesDone uint64, done, total int) {
	if fn == nil {
		return
	}
	fn(ProgressEvent{
		Stage:        stage,
		Path:         path,
		BytesDone:    bytesDone,
		EntriesDone:  done,
		EntriesTotal: total,
	})
}
