package rollwriter

// Options are the RollWriter options.
type Options struct {
	// MaxSize is the size in bytes at which the current file is backed up. 0 disables it.
	MaxSize int64
	// MaxBackups is the number of backups kept per log file. 0 keeps all of them.
	MaxBackups int
	// TimeFormat is a strftime pattern appended to the file path, like ".%Y%m%d".
	TimeFormat string
}

// Option modifies the Options.
type Option func(*Options)

// WithMaxSize backs the file up once it holds n megabytes.
func WithMaxSize(n int) Option {
	return func(o *Options) {
		o.MaxSize = int64(n) * 1024 * 1024
	}
}

// WithMaxBackups keeps at most n backups.
func WithMaxBackups(n int) Option {
	return func(o *Options) {
		o.MaxBackups = n
	}
}

// WithRotationTime names the file after the current time, so a new file
// starts whenever the formatted time changes.
func WithRotationTime(s string) Option {
	return func(o *Options) {
		o.TimeFormat = s
	}
}
