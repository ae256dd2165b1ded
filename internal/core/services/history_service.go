package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports"
)

// MaxHistoryEntries caps the ledger. When a new record pushes the ledger
// past the cap the oldest entry is evicted.
const MaxHistoryEntries = 200

// HistoryService owns the in-memory ledger of classification records and
// keeps the persisted blob in sync. Persistence failures degrade to a
// notification; the in-memory ledger always stays authoritative for the
// session.
type HistoryService struct {
	mu       sync.Mutex
	repo     ports.HistoryRepository
	notifier ports.Notifier
	ledger   []domain.ClassificationRecord
}

// NewHistoryService creates a service over the given repository. Call Load
// before first use to hydrate the ledger from disk.
func NewHistoryService(repo ports.HistoryRepository, notifier ports.Notifier) *HistoryService {
	return &HistoryService{
		repo:     repo,
		notifier: notifier,
	}
}

// Load hydrates the ledger from the repository. A missing blob starts an
// empty ledger; a corrupt or unreadable blob is logged, surfaced as a
// warning notification and the session starts empty. Load never fails.
func (s *HistoryService) Load() {
	ledger, err := s.repo.Load()
	if err != nil {
		log.Printf("history: load failed, starting empty: %v", err)
		if s.notifier != nil {
			s.notifier.Push("Could not load saved history, starting fresh", domain.SeverityWarning, 0)
		}
		ledger = nil
	}
	if len(ledger) > MaxHistoryEntries {
		ledger = ledger[:MaxHistoryEntries]
	}

	s.mu.Lock()
	s.ledger = ledger
	s.mu.Unlock()
}

// Record validates and prepends a record, evicting the oldest entry past
// the cap, then persists the full ledger synchronously. A persistence
// failure is degraded to an error notification; the record stays in memory
// either way. The only hard error is a record that fails validation.
func (s *HistoryService) Record(rec domain.ClassificationRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("refusing invalid history record: %w", err)
	}

	s.mu.Lock()
	s.ledger = append([]domain.ClassificationRecord{rec}, s.ledger...)
	if len(s.ledger) > MaxHistoryEntries {
		s.ledger = s.ledger[:MaxHistoryEntries]
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snapshot)
	return nil
}

// Remove deletes the record at index. An out-of-range index is a no-op.
func (s *HistoryService) Remove(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.ledger) {
		s.mu.Unlock()
		return
	}
	s.ledger = append(s.ledger[:index], s.ledger[index+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snapshot)
}

// Clear empties the ledger and persists the empty state.
func (s *HistoryService) Clear() {
	s.mu.Lock()
	s.ledger = nil
	s.mu.Unlock()

	s.persist(nil)
}

// Ledger returns a copy of the records, newest first.
func (s *HistoryService) Ledger() []domain.ClassificationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns the record at index, newest first.
func (s *HistoryService) Get(index int) (domain.ClassificationRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.ledger) {
		return domain.ClassificationRecord{}, false
	}
	return s.ledger[index], true
}

// Stats recomputes the aggregate counters from the current ledger.
func (s *HistoryService) Stats() domain.HistoryStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeStats(s.ledger)
}

func (s *HistoryService) snapshotLocked() []domain.ClassificationRecord {
	snapshot := make([]domain.ClassificationRecord, len(s.ledger))
	copy(snapshot, s.ledger)
	return snapshot
}

func (s *HistoryService) persist(ledger []domain.ClassificationRecord) {
	if err := s.repo.Save(ledger); err != nil {
		log.Printf("history: save failed: %v", err)
		if s.notifier != nil {
			s.notifier.Push("Failed to save history", domain.SeverityError, 0)
		}
	}
}
