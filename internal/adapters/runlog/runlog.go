package runlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
)

// FileRunLog stores runs as JSON lines in a single append-only file
type FileRunLog struct {
	path string
	mu   sync.Mutex
}

func NewFileRunLog(path string) *FileRunLog {
	return &FileRunLog{path: path}
}

// Path returns the log file location
func (l *FileRunLog) Path() string {
	return l.path
}

// Append writes one run as a single line
func (l *FileRunLog) Append(ctx context.Context, run *domain.RunRecord) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create run log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append run: %w", err)
	}
	return nil
}

// List reads every run, oldest first. A missing file is an empty log.
// Lines that fail to decode are skipped so a torn write doesn't hide the history.
func (l *FileRunLog) List(ctx context.Context) ([]domain.RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.RunRecord{}, nil
		}
		return nil, err
	}

	runs := []domain.RunRecord{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var run domain.RunRecord
		if err := json.Unmarshal(line, &run); err != nil {
			continue
		}
		runs = append(runs, run)
	}
	if err := scanner.Err(); err != nil {
		return runs, err
	}

	return runs, nil
}

// Find returns the run with the given id, or the latest run when id is empty
func (l *FileRunLog) Find(ctx context.Context, id string) (*domain.RunRecord, error) {
	runs, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs recorded")
	}
	if id == "" {
		return &runs[len(runs)-1], nil
	}
	for i := range runs {
		if runs[i].ID == id {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("run not found: %s", id)
}
