package pack

// DefaultMaxEntries is the default limit used when no CreateWithMaxEntries option is set.
const DefaultMaxEntries = 200_000

// createConfig holds configuration for Create.
type createConfig struct {
	maxEntries  int
	maxFileSize int64
	progress    ProgressFunc
}

// CreateOption configures Create.
type CreateOption func(*createConfig)

// CreateWithMaxEntries limits the number of files packed.
// Zero uses DefaultMaxEntries. Negative means no limit.
func CreateWithMaxEntries(n int) CreateOption {
	return func(cfg *createConfig) {
		cfg.maxEntries = n
	}
}

// CreateWithMaxFileSize rejects files larger than limit bytes with ErrSizeOverflow.
// Zero disables the limit.
func CreateWithMaxFileSize(limit int64) CreateOption {
	return func(cfg *createConfig) {
		cfg.maxFileSize = limit
	}
}

// CreateWithProgress sets a callback to receive progress updates.
func CreateWithProgress(fn ProgressFunc) CreateOption {
	return func(cfg *createConfig) {
		cfg.progress = fn
	}
}
