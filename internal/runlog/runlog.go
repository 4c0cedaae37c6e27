// Package runlog writes one structured log file per upload or sync run.
// The file path is stored with the run record so operators can pull up
// the full trace of a pass after the fact.
package runlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Run is an open per-run log. Close it when the pass finishes.
type Run struct {
	Logger *slog.Logger
	Path   string

	file *os.File
}

// New opens <dir>/<kind>_<timestamp>.log and returns a JSON logger
// writing to it. The directory is created on first use.
func New(dir, kind string) (*Run, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", kind, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, nil)).With("run", kind)
	return &Run{Logger: logger, Path: path, file: f}, nil
}

func (r *Run) Close() error {
	return r.file.Close()
}
