package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports/mocks"
)

func testRecord(filename string, verdict domain.Verdict) domain.ClassificationRecord {
	return domain.ClassificationRecord{
		Verdict:    verdict,
		Confidence: 0.9,
		RawScore:   0.9,
		Model:      "resnet18_best.pth",
		Filename:   filename,
		Timestamp:  time.Now(),
		Dimensions: "64x64",
		SizeBytes:  1024,
	}
}

func TestHistoryRecordPrepends(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	svc := NewHistoryService(repo, nil)
	svc.Load()

	if err := svc.Record(testRecord("first.png", domain.VerdictClean)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Record(testRecord("second.png", domain.VerdictStego)); err != nil {
		t.Fatal(err)
	}

	ledger := svc.Ledger()
	if len(ledger) != 2 {
		t.Fatalf("ledger length = %d, want 2", len(ledger))
	}
	if ledger[0].Filename != "second.png" {
		t.Errorf("newest record must come first, got %s", ledger[0].Filename)
	}
	if repo.SaveCalls() != 2 {
		t.Errorf("save calls = %d, want 2", repo.SaveCalls())
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	svc := NewHistoryService(repo, nil)
	svc.Load()

	for i := 0; i <= MaxHistoryEntries; i++ {
		rec := testRecord(fmt.Sprintf("img-%03d.png", i), domain.VerdictClean)
		if err := svc.Record(rec); err != nil {
			t.Fatal(err)
		}
	}

	ledger := svc.Ledger()
	if len(ledger) != MaxHistoryEntries {
		t.Fatalf("ledger length = %d, want %d", len(ledger), MaxHistoryEntries)
	}
	if ledger[len(ledger)-1].Filename == "img-000.png" {
		t.Error("oldest record must be evicted at the cap")
	}
	if ledger[0].Filename != fmt.Sprintf("img-%03d.png", MaxHistoryEntries) {
		t.Errorf("newest record = %s, want img-%03d.png", ledger[0].Filename, MaxHistoryEntries)
	}
}

func TestHistoryRejectsInvalidRecord(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	svc := NewHistoryService(repo, nil)
	svc.Load()

	bad := testRecord("bad.png", "maybe")
	if err := svc.Record(bad); err == nil {
		t.Fatal("expected validation error for unknown verdict")
	}
	if len(svc.Ledger()) != 0 {
		t.Error("invalid record must not enter the ledger")
	}
	if repo.SaveCalls() != 0 {
		t.Error("invalid record must not trigger a save")
	}
}

func TestHistoryPersistFailureDegradesToNotification(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	notifier := mocks.NewMockNotifier()
	svc := NewHistoryService(repo, notifier)
	svc.Load()
	repo.SetShouldFail(true, errors.New("disk full"))

	if err := svc.Record(testRecord("cover.png", domain.VerdictStego)); err != nil {
		t.Fatalf("persistence failure must not surface as an error: %v", err)
	}
	if len(svc.Ledger()) != 1 {
		t.Error("in-memory ledger must keep the record despite save failure")
	}
	if got := notifier.CountBySeverity(domain.SeverityError); got != 1 {
		t.Errorf("error notifications = %d, want 1", got)
	}
}

func TestHistoryLoadCorruptStartsEmpty(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	notifier := mocks.NewMockNotifier()
	repo.SetShouldFail(true, errors.New("invalid character 'x'"))

	svc := NewHistoryService(repo, notifier)
	svc.Load()

	if len(svc.Ledger()) != 0 {
		t.Error("corrupt blob must yield an empty ledger")
	}
	if got := notifier.CountBySeverity(domain.SeverityWarning); got != 1 {
		t.Errorf("warning notifications = %d, want 1", got)
	}
}

func TestHistoryRemove(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		wantLen  int
		wantTop  string
		wantSave int
	}{
		{name: "removes at index", index: 0, wantLen: 1, wantTop: "first.png", wantSave: 3},
		{name: "negative index is a no-op", index: -1, wantLen: 2, wantTop: "second.png", wantSave: 2},
		{name: "past-end index is a no-op", index: 5, wantLen: 2, wantTop: "second.png", wantSave: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockHistoryRepository()
			svc := NewHistoryService(repo, nil)
			svc.Load()
			if err := svc.Record(testRecord("first.png", domain.VerdictClean)); err != nil {
				t.Fatal(err)
			}
			if err := svc.Record(testRecord("second.png", domain.VerdictStego)); err != nil {
				t.Fatal(err)
			}

			svc.Remove(tt.index)

			ledger := svc.Ledger()
			if len(ledger) != tt.wantLen {
				t.Fatalf("ledger length = %d, want %d", len(ledger), tt.wantLen)
			}
			if ledger[0].Filename != tt.wantTop {
				t.Errorf("top record = %s, want %s", ledger[0].Filename, tt.wantTop)
			}
			if repo.SaveCalls() != tt.wantSave {
				t.Errorf("save calls = %d, want %d", repo.SaveCalls(), tt.wantSave)
			}
		})
	}
}

func TestHistoryClear(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	svc := NewHistoryService(repo, nil)
	svc.Load()
	if err := svc.Record(testRecord("cover.png", domain.VerdictClean)); err != nil {
		t.Fatal(err)
	}

	svc.Clear()

	if len(svc.Ledger()) != 0 {
		t.Error("clear must empty the ledger")
	}
	loaded, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Error("clear must persist the empty state")
	}
}

func TestHistoryStats(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	svc := NewHistoryService(repo, nil)
	svc.Load()
	for i := 0; i < 3; i++ {
		if err := svc.Record(testRecord("s.png", domain.VerdictStego)); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := svc.Record(testRecord("c.png", domain.VerdictClean)); err != nil {
			t.Fatal(err)
		}
	}

	stats := svc.Stats()
	if stats.Total != 5 || stats.Stego != 3 || stats.Clean != 2 {
		t.Errorf("stats = %+v, want total 5, stego 3, clean 2", stats)
	}
}

func TestHistoryLoadSurvivesRestart(t *testing.T) {
	repo := mocks.NewMockHistoryRepository()
	first := NewHistoryService(repo, nil)
	first.Load()
	if err := first.Record(testRecord("persisted.png", domain.VerdictStego)); err != nil {
		t.Fatal(err)
	}

	second := NewHistoryService(repo, nil)
	second.Load()

	ledger := second.Ledger()
	if len(ledger) != 1 || ledger[0].Filename != "persisted.png" {
		t.Errorf("ledger after reload = %+v, want the persisted record", ledger)
	}
}
