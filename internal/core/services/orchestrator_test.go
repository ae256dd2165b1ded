package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports/mocks"
)

func testImage(name string) *domain.UploadedImage {
	return &domain.UploadedImage{
		Name:     name,
		MIMEType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4E, 0x47},
		Size:     4,
		Width:    64,
		Height:   64,
	}
}

func testClassification() domain.ClassificationPayload {
	return domain.ClassificationPayload{
		Model:      "resnet18_best.pth",
		Prediction: "stego",
		Label:      "Stego (Hidden Data Detected)",
		Confidence: 0.93,
		RawScore:   0.93,
	}
}

func newTestOrchestrator() (*Orchestrator, *mocks.MockAnalysisClient, *HistoryService, *mocks.MockHistoryRepository, *mocks.MockNotifier) {
	client := mocks.NewMockAnalysisClient()
	repo := mocks.NewMockHistoryRepository()
	notifier := mocks.NewMockNotifier()
	history := NewHistoryService(repo, notifier)
	history.Load()
	return NewOrchestrator(client, history, notifier), client, history, repo, notifier
}

func TestRunModuleNoActiveImage(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()

	_, err := orch.RunModule(context.Background(), domain.KindMetadata, RunConfig{})
	if !errors.Is(err, domain.ErrNoActiveImage) {
		t.Fatalf("expected ErrNoActiveImage, got %v", err)
	}
	if len(client.Calls()) != 0 {
		t.Errorf("expected no network calls, got %v", client.Calls())
	}
}

func TestRunModuleSuccess(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()
	client.SetPayload(domain.KindMetadata, domain.MetadataPayload{
		Basic: map[string]any{"format": "PNG"},
	})

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunModule(context.Background(), domain.KindMetadata, RunConfig{})
	if err != nil {
		t.Fatal(err)
	}

	s := <-ch
	if !s.Applied {
		t.Fatal("expected settlement to be applied")
	}
	if s.Result.Status != domain.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", s.Result.Status, s.Result.Err)
	}
	if s.Result.Payload == nil {
		t.Fatal("expected payload on success")
	}

	state := orch.ModuleState(domain.KindMetadata)
	if state.Status != domain.StatusSuccess {
		t.Errorf("module state = %s, want success", state.Status)
	}
}

func TestRunModuleFailureEmitsErrorNotification(t *testing.T) {
	orch, client, _, _, notifier := newTestOrchestrator()
	client.SetFailure(domain.KindStrings, errors.New("service unavailable"))

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunModule(context.Background(), domain.KindStrings, RunConfig{})
	if err != nil {
		t.Fatal(err)
	}

	s := <-ch
	if s.Result.Status != domain.StatusFailed {
		t.Fatalf("expected failed, got %s", s.Result.Status)
	}
	if s.Result.Err == "" {
		t.Error("expected error message on failed result")
	}
	if got := notifier.CountBySeverity(domain.SeverityError); got != 1 {
		t.Errorf("error notifications = %d, want 1", got)
	}
}

func TestReplacingImageDiscardsInFlightSettlement(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()
	client.SetPayload(domain.KindLSB, domain.LSBPayload{
		Assessment: domain.LSBAssessment{ContainsHiddenData: true, ConfidenceScore: 80},
	})
	client.Gate(domain.KindLSB)

	if _, err := orch.SetActiveImage(testImage("first.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunModule(context.Background(), domain.KindLSB, RunConfig{})
	if err != nil {
		t.Fatal(err)
	}

	// Swap the subject while the first request is still in flight.
	if _, err := orch.SetActiveImage(testImage("second.png")); err != nil {
		t.Fatal(err)
	}
	client.Release(domain.KindLSB)

	s := <-ch
	if s.Applied {
		t.Fatal("settlement for superseded session must be discarded")
	}
	state := orch.ModuleState(domain.KindLSB)
	if state.Status != domain.StatusIdle {
		t.Errorf("module state = %s, want idle after image swap", state.Status)
	}
}

func TestRerunSupersedesOlderRun(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()
	client.SetPayload(domain.KindVisual, domain.VisualPayload{
		Channels: map[string]any{"red": "..."},
	})
	client.Gate(domain.KindVisual)

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	first, err := orch.RunModule(context.Background(), domain.KindVisual, RunConfig{})
	if err != nil {
		t.Fatal(err)
	}

	// Second dispatch for the same module and session while the first is
	// still gated; releasing then lets both settle.
	second, err := orch.RunModule(context.Background(), domain.KindVisual, RunConfig{})
	if err != nil {
		t.Fatal(err)
	}
	client.Release(domain.KindVisual)

	s1 := <-first
	if s1.Applied {
		t.Error("superseded run must not be applied")
	}
	s2 := <-second
	if !s2.Applied {
		t.Errorf("latest run must be applied, got discarded (%s)", s2.Result.Err)
	}
}

func TestClassificationSuccessRecordsHistory(t *testing.T) {
	orch, client, history, repo, notifier := newTestOrchestrator()
	client.SetPayload(domain.KindClassification, testClassification())

	if _, err := orch.SetActiveImage(testImage("suspect.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunModule(context.Background(), domain.KindClassification, RunConfig{Model: "resnet18_best.pth"})
	if err != nil {
		t.Fatal(err)
	}
	<-ch

	ledger := history.Ledger()
	if len(ledger) != 1 {
		t.Fatalf("ledger length = %d, want 1", len(ledger))
	}
	rec := ledger[0]
	if rec.Verdict != domain.VerdictStego {
		t.Errorf("verdict = %s, want stego", rec.Verdict)
	}
	if rec.Filename != "suspect.png" {
		t.Errorf("filename = %s, want suspect.png", rec.Filename)
	}
	if rec.Dimensions != "64x64" {
		t.Errorf("dimensions = %s, want 64x64", rec.Dimensions)
	}
	if repo.SaveCalls() != 1 {
		t.Errorf("save calls = %d, want 1", repo.SaveCalls())
	}
	if got := notifier.CountBySeverity(domain.SeveritySuccess); got != 1 {
		t.Errorf("success notifications = %d, want 1", got)
	}
}

func TestForensicFailureLeavesHistoryUntouched(t *testing.T) {
	orch, client, history, _, notifier := newTestOrchestrator()
	client.SetPayload(domain.KindMetadata, domain.MetadataPayload{})
	client.SetPayload(domain.KindVisual, domain.VisualPayload{})
	client.SetPayload(domain.KindLSB, domain.LSBPayload{})
	client.SetPayload(domain.KindSuperimposed, domain.SuperimposedPayload{})
	client.SetFailure(domain.KindStrings, errors.New("boom"))

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunAll(context.Background(), RunConfig{}, domain.ForensicModuleKinds...)
	if err != nil {
		t.Fatal(err)
	}

	var failed, succeeded int
	for s := range ch {
		switch s.Result.Status {
		case domain.StatusFailed:
			failed++
		case domain.StatusSuccess:
			succeeded++
		}
	}
	if failed != 1 || succeeded != 4 {
		t.Errorf("settlements = %d failed / %d success, want 1/4", failed, succeeded)
	}
	if got := notifier.CountBySeverity(domain.SeverityError); got != 1 {
		t.Errorf("error notifications = %d, want 1", got)
	}
	if len(history.Ledger()) != 0 {
		t.Errorf("history must not change on forensic-only runs, got %d records", len(history.Ledger()))
	}
}

func TestRunAllChannelClosesAfterAllSettle(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()
	client.SetPayload(domain.KindClassification, testClassification())
	client.SetPayload(domain.KindMetadata, domain.MetadataPayload{})
	client.SetPayload(domain.KindStrings, domain.StringsPayload{})
	client.SetPayload(domain.KindVisual, domain.VisualPayload{})
	client.SetPayload(domain.KindLSB, domain.LSBPayload{})
	client.SetPayload(domain.KindSuperimposed, domain.SuperimposedPayload{})

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunAll(context.Background(), RunConfig{})
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for range ch {
		count++
	}
	if count != len(domain.AllModuleKinds) {
		t.Errorf("settlements = %d, want %d", count, len(domain.AllModuleKinds))
	}
}

func TestRunCombinedSplitsResponsePerModule(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()
	client.SetCombined(&domain.CombinedPayload{
		Metadata: &domain.MetadataPayload{Basic: map[string]any{"format": "PNG"}},
		Strings:  &domain.StringsPayload{TotalUnique: 12},
		Visual:   &domain.VisualPayload{},
		LSB:      &domain.LSBPayload{},
	})

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunCombined(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[domain.ModuleKind]domain.ModuleStatus)
	for s := range ch {
		seen[s.Kind] = s.Result.Status
	}
	for _, kind := range []domain.ModuleKind{domain.KindMetadata, domain.KindStrings, domain.KindVisual, domain.KindLSB} {
		if seen[kind] != domain.StatusSuccess {
			t.Errorf("%s = %s, want success", kind, seen[kind])
		}
	}
	if _, ok := seen[domain.KindSuperimposed]; ok {
		t.Error("combined run must not touch the superimposed module")
	}
}

func TestRunCombinedFailureFailsAllFour(t *testing.T) {
	orch, client, _, _, notifier := newTestOrchestrator()
	// No scripted combined payload, so AnalyzeAll fails.
	_ = client

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunCombined(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}

	failed := 0
	for s := range ch {
		if s.Result.Status == domain.StatusFailed {
			failed++
		}
	}
	if failed != 4 {
		t.Errorf("failed settlements = %d, want 4", failed)
	}
	if got := notifier.CountBySeverity(domain.SeverityError); got != 4 {
		t.Errorf("error notifications = %d, want 4", got)
	}
}

func TestClearActiveImageResetsModules(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()
	client.SetPayload(domain.KindMetadata, domain.MetadataPayload{})

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ch, err := orch.RunModule(context.Background(), domain.KindMetadata, RunConfig{})
	if err != nil {
		t.Fatal(err)
	}
	<-ch

	orch.ClearActiveImage()
	if orch.ActiveImage() != nil {
		t.Error("active image must be nil after clear")
	}
	for kind, result := range orch.Snapshot() {
		if result.Status != domain.StatusIdle {
			t.Errorf("%s = %s, want idle after clear", kind, result.Status)
		}
	}
}

func TestSessionTokenAdvancesPerUpload(t *testing.T) {
	orch, _, _, _, _ := newTestOrchestrator()

	t1, err := orch.SetActiveImage(testImage("a.png"))
	if err != nil {
		t.Fatal(err)
	}
	t2, err := orch.SetActiveImage(testImage("b.png"))
	if err != nil {
		t.Fatal(err)
	}
	if t2 <= t1 {
		t.Errorf("session tokens must be monotonic: %d then %d", t1, t2)
	}
}

func TestRunModuleContextCancellation(t *testing.T) {
	orch, client, _, _, _ := newTestOrchestrator()
	client.SetPayload(domain.KindStrings, domain.StringsPayload{})
	client.Gate(domain.KindStrings)

	if _, err := orch.SetActiveImage(testImage("cover.png")); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := orch.RunModule(ctx, domain.KindStrings, RunConfig{})
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case s := <-ch:
		if s.Result.Status != domain.StatusFailed {
			t.Errorf("expected failed settlement on cancellation, got %s", s.Result.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("settlement did not arrive after cancellation")
	}
}
