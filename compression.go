package pack

import (
	"path/filepath"
	"strings"
)

// SkipCompressionFunc returns true when a blob should be stored uncompressed.
// It is called once per blob and should be inexpensive.
type SkipCompressionFunc func(path string, size int) bool

// DefaultSkipCompression returns a SkipCompressionFunc that skips blobs
// smaller than minSize and paths with known already-compressed extensions.
func DefaultSkipCompression(minSize int) SkipCompressionFunc {
	return func(path string, size int) bool {
		if minSize > 0 && size < minSize {
			return true
		}
		ext := strings.ToLower(filepath.Ext(path))
		_, ok := defaultSkipCompressionExts[ext]
		return ok
	}
}

// shouldSkip checks if any predicate returns true for the given blob.
func shouldSkip(path string, size int, predicates []SkipCompressionFunc) bool {
	for _, fn := range predicates {
		if fn == nil {
			continue
		}
		if fn(path, size) {
			return true
		}
	}
	return false
}

var defaultSkipCompressionExts = map[string]struct{}{
	".7z":    {},
	".aac":   {},
	".avif":  {},
	".br":    {},
	".bz2":   {},
	".flac":  {},
	".gif":   {},
	".gz":    {},
	".heic":  {},
	".jpeg":  {},
	".jpg":   {},
	".m4v":   {},
	".mkv":   {},
	".mov":   {},
	".mp3":   {},
	".mp4":   {},
	".ogg":   {},
	".opus":  {},
	".png":   {},
	".rar":   {},
	".tgz":   {},
	".webm":  {},
	".webp":  {},
	".woff2": {},
	".xz":    {},
	".zip":   {},
	".zst":   {},
}
