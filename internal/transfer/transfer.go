package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"go.uber.org/zap"
)

// TaskStore is the part of the task service the adapter needs.
type TaskStore interface {
	ListAll(ctx context.Context) []task.Task
	AddTask(ctx context.Context, t task.Task) (int64, error)
}

// Diagnostic explains why one element of an import was not stored.
type Diagnostic struct {
	Index int
	Title string
	Err   error
}

func (d Diagnostic) String() string {
	if d.Title != "" {
		return fmt.Sprintf("element %d (%q): %v", d.Index, d.Title, d.Err)
	}
	return fmt.Sprintf("element %d: %v", d.Index, d.Err)
}

// Result tallies an import. Imported counts confirmed inserts only.
type Result struct {
	Total    int
	Imported int
	Skipped  []Diagnostic
	Failed   []Diagnostic
}

type Transfer struct {
	store TaskStore
	path  string
}

func New(store TaskStore, path string) *Transfer {
	return &Transfer{store: store, path: path}
}

func (t *Transfer) Path() string {
	return t.path
}

// Export writes every stored task to the configured file and returns how many were written.
// With no tasks it writes nothing and returns 0.
func (t *Transfer) Export(ctx context.Context) (int, error) {
	tasks := t.store.ListAll(ctx)
	if len(tasks) == 0 {
		logger.Info("Transfer: No tasks to export", zap.String("file", t.path))
		return 0, nil
	}

	if err := writeFile(t.path, tasks); err != nil {
		logger.Error("Transfer: Export failed", err, zap.String("file", t.path))
		return 0, err
	}

	logger.Info("Transfer: Export finished", zap.String("file", t.path), zap.Int("tasks", len(tasks)))
	return len(tasks), nil
}

// writeFile replaces path atomically so a failed export never truncates the previous file.
func writeFile(path string, tasks []task.Task) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, tasks); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Import reads the configured file and inserts each valid element as it goes.
// Only a missing file or a malformed document aborts; bad elements are skipped.
func (t *Transfer) Import(ctx context.Context) (Result, error) {
	f, err := os.Open(t.path)
	if err != nil {
		logger.Error("Transfer: Cannot open import file", err, zap.String("file", t.path))
		return Result{}, fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	elems, err := Decode(f, t.path)
	if err != nil {
		logger.Error("Transfer: Import file is not valid JSON", err, zap.String("file", t.path))
		return Result{}, err
	}

	res := Result{Total: len(elems)}
	for i, raw := range elems {
		tk, title, err := parseElement(raw)
		if err != nil {
			logger.Warn("Transfer: Skipping invalid element", zap.Int("index", i), zap.Error(err))
			res.Skipped = append(res.Skipped, Diagnostic{Index: i, Title: title, Err: err})
			continue
		}

		if _, err := t.store.AddTask(ctx, tk); err != nil {
			logger.Warn("Transfer: Insert failed", zap.Int("index", i), zap.Error(err))
			res.Failed = append(res.Failed, Diagnostic{Index: i, Title: title, Err: err})
			continue
		}
		res.Imported++
	}

	logger.Info("Transfer: Import finished",
		zap.String("file", t.path),
		zap.Int("total", res.Total),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("failed", len(res.Failed)))
	return res, nil
}

func parseElement(raw []byte) (task.Task, string, error) {
	rec, err := DecodeRecord(raw)
	if err != nil {
		return task.Task{}, "", err
	}
	tk, err := rec.ToTask()
	return tk, rec.Title, err
}
