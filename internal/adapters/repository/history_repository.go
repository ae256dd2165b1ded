package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports"
)

// FileHistoryRepository persists the ledger as one JSON blob on disk. Writes
// go through a temp file and rename so a crash mid-write never leaves a
// truncated blob behind.
type FileHistoryRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileHistoryRepository creates a repository storing its blob at path.
func NewFileHistoryRepository(path string) *FileHistoryRepository {
	return &FileHistoryRepository{path: path}
}

// Ensure it implements the interface
var _ ports.HistoryRepository = (*FileHistoryRepository)(nil)

// Save writes the full ledger, replacing any previous blob.
func (r *FileHistoryRepository) Save(ledger []domain.ClassificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ledger == nil {
		ledger = []domain.ClassificationRecord{}
	}
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

// Load reads the persisted ledger. A missing blob yields an empty ledger
// and no error.
func (r *FileHistoryRepository) Load() ([]domain.ClassificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var ledger []domain.ClassificationRecord
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return ledger, nil
}
