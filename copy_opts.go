package pack

// CopyOption configures CopyDir.
type CopyOption func(*copyConfig)

// defaultCopyWorkers is used when no CopyWithWorkers option is set.
const defaultCopyWorkers = 4

type copyConfig struct {
	overwrite bool
	prefix    string
	workers   int
	progress  ProgressFunc
}

// CopyWithOverwrite allows overwriting existing files.
// By default, existing files are skipped.
func CopyWithOverwrite(overwrite bool) CopyOption {
	return func(c *copyConfig) {
		c.overwrite = overwrite
	}
}

// CopyWithPrefix restricts extraction to entries whose path starts with prefix.
func CopyWithPrefix(prefix string) CopyOption {
	return func(c *copyConfig) {
		c.prefix = prefix
	}
}

// CopyWithWorkers sets the number of entries extracted in parallel.
// Values < 1 force serial processing. Zero keeps the default (4).
func CopyWithWorkers(n int) CopyOption {
	return func(c *copyConfig) {
		if n < 0 {
			n = 1
		}
		c.workers = n
	}
}

// CopyWithProgress sets a callback to receive progress updates.
func CopyWithProgress(fn ProgressFunc) CopyOption {
	return func(c *copyConfig) {
		c.progress = fn
	}
}
