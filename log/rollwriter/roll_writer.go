// Package rollwriter provides a log file io.Writer that rolls by datetime and size.
// The file name is the path followed by a strftime pattern, and a file that
// outgrows MaxSize is renamed to a timestamped backup.
package rollwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/lestrrat-go/strftime"
)

const backupTimeFormat = "bk-20060102-150405.000000000"

var _ io.WriteCloser = (*RollWriter)(nil)

// RollWriter writes to the log file named by the current time and backs it up
// when it grows past MaxSize. It is safe for concurrent use.
type RollWriter struct {
	opts    *Options
	pattern *strftime.Strftime
	dir     string

	mu       sync.Mutex
	currPath string
	currFile *os.File
	currSize int64
}

// NewRollWriter creates a RollWriter for filePath, creating its directory.
func NewRollWriter(filePath string, opt ...Option) (*RollWriter, error) {
	if filePath == "" {
		return nil, errors.New("rollwriter: invalid file path")
	}
	opts := &Options{}
	for _, o := range opt {
		o(opts)
	}
	pattern, err := strftime.New(filePath + opts.TimeFormat)
	if err != nil {
		return nil, fmt.Errorf("rollwriter: invalid time pattern %q: %w", opts.TimeFormat, err)
	}
	w := &RollWriter{
		opts:    opts,
		pattern: pattern,
		dir:     filepath.Dir(filePath),
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("rollwriter: create log dir: %w", err)
	}
	return w, nil
}

// Write writes p to the current file. It implements io.Writer.
func (w *RollWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.openCurrent(time.Now()); err != nil {
		return 0, err
	}
	n, err := w.currFile.Write(p)
	w.currSize += int64(n)
	if w.opts.MaxSize > 0 && w.currSize >= w.opts.MaxSize {
		if berr := w.backupFile(); berr != nil && err == nil {
			err = berr
		}
	}
	return n, err
}

// Sync commits the current file to disk.
func (w *RollWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currFile == nil {
		return nil
	}
	return w.currFile.Sync()
}

// Close closes the current file. It implements io.Closer.
func (w *RollWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeCurrent()
}

// openCurrent switches to the file named after now when it differs from the open one.
func (w *RollWriter) openCurrent(now time.Time) error {
	path := w.pattern.FormatString(now)
	if w.currFile != nil && path == w.currPath {
		return nil
	}
	if err := w.closeCurrent(); err != nil {
		return err
	}
	return w.open(path)
}

func (w *RollWriter) open(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("rollwriter: open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("rollwriter: stat %s: %w", path, err)
	}
	w.currPath, w.currFile, w.currSize = path, f, st.Size()
	return nil
}

func (w *RollWriter) closeCurrent() error {
	if w.currFile == nil {
		return nil
	}
	err := w.currFile.Close()
	w.currFile = nil
	return err
}

// backupFile renames the full file to a timestamped backup and reopens the path.
func (w *RollWriter) backupFile() error {
	path := w.currPath
	if err := w.closeCurrent(); err != nil {
		return err
	}
	backup := path + "." + time.Now().Format(backupTimeFormat)
	if err := os.Rename(path, backup); err != nil {
		return fmt.Errorf("rollwriter: backup %s: %w", path, err)
	}
	if err := w.open(path); err != nil {
		return err
	}
	return w.removeOldBackups(path)
}

// removeOldBackups keeps the newest MaxBackups backups of path.
func (w *RollWriter) removeOldBackups(path string) error {
	if w.opts.MaxBackups <= 0 {
		return nil
	}
	backups, err := filepath.Glob(path + ".bk-*")
	if err != nil {
		return err
	}
	if len(backups) <= w.opts.MaxBackups {
		return nil
	}
	// the timestamp suffix sorts oldest first
	sort.Strings(backups)
	var result *multierror.Error
	for _, b := range backups[:len(backups)-w.opts.MaxBackups] {
		if err := os.Remove(b); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
