// Package tracker mirrors the live run to a directory of JSON files so that
// overlays and other external viewers can follow along. The files are only
// ever written; the host never reads them back.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chr1sbest/ironrun/internal/runstate"
)

type Writer struct {
	Dir          string
	RunStatePath string
	ProgressPath string
	LockPath     string
	MetricsPath  string
}

func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:          dir,
		RunStatePath: filepath.Join(dir, "run_state.json"),
		ProgressPath: filepath.Join(dir, "progress.json"),
		LockPath:     filepath.Join(dir, ".ironrun_lock"),
		MetricsPath:  filepath.Join(dir, "session_metrics.json"),
	}
}

// EnsureDir creates the export directory if needed.
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	return nil
}

func (w *Writer) WriteRunState(s runstate.RunState) error {
	return writeJSONAtomic(w.RunStatePath, s)
}

func (w *Writer) WriteProgress(p runstate.Progress) error {
	return writeJSONAtomic(w.ProgressPath, p)
}

func (w *Writer) WriteMetrics(m SessionMetrics) error {
	return writeJSONAtomic(w.MetricsPath, m)
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
