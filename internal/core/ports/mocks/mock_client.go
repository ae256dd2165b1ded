package mocks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports"
)

// MockAnalysisClient is a scripted implementation of the AnalysisClient
// port for testing. Each module can be given a canned payload or a failure,
// and can optionally be gated so a call blocks until the test releases it,
// which lets tests create genuinely in-flight requests.
type MockAnalysisClient struct {
	mu       sync.Mutex
	payloads map[domain.ModuleKind]domain.ModulePayload
	failures map[domain.ModuleKind]error
	gates    map[domain.ModuleKind]chan struct{}
	calls    []domain.ModuleKind
	models   []string
	combined *domain.CombinedPayload
}

// NewMockAnalysisClient creates an empty mock client.
func NewMockAnalysisClient() *MockAnalysisClient {
	return &MockAnalysisClient{
		payloads: make(map[domain.ModuleKind]domain.ModulePayload),
		failures: make(map[domain.ModuleKind]error),
		gates:    make(map[domain.ModuleKind]chan struct{}),
	}
}

// SetPayload scripts a successful result for a module.
func (m *MockAnalysisClient) SetPayload(kind domain.ModuleKind, p domain.ModulePayload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[kind] = p
	delete(m.failures, kind)
}

// SetFailure scripts a failure for a module.
func (m *MockAnalysisClient) SetFailure(kind domain.ModuleKind, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind] = err
	delete(m.payloads, kind)
}

// Gate makes the next call for kind block until Release is called.
func (m *MockAnalysisClient) Gate(kind domain.ModuleKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gates[kind] = make(chan struct{})
}

// Release unblocks a gated call. Safe to call once per Gate.
func (m *MockAnalysisClient) Release(kind domain.ModuleKind) {
	m.mu.Lock()
	gate := m.gates[kind]
	delete(m.gates, kind)
	m.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// SetModels scripts the ListModels response.
func (m *MockAnalysisClient) SetModels(models []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = models
}

// SetCombined scripts the AnalyzeAll response.
func (m *MockAnalysisClient) SetCombined(p *domain.CombinedPayload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.combined = p
}

// Calls returns the modules invoked so far, in call order.
func (m *MockAnalysisClient) Calls() []domain.ModuleKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.ModuleKind, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockAnalysisClient) settle(ctx context.Context, kind domain.ModuleKind) (domain.ModulePayload, error) {
	m.mu.Lock()
	m.calls = append(m.calls, kind)
	gate := m.gates[kind]
	payload, hasPayload := m.payloads[kind]
	failure := m.failures[kind]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if failure != nil {
		return nil, failure
	}
	if !hasPayload {
		return nil, fmt.Errorf("mock client: no scripted payload for %s", kind)
	}
	return payload, nil
}

func (m *MockAnalysisClient) ListModels(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.models, nil
}

func (m *MockAnalysisClient) Classify(ctx context.Context, img *domain.UploadedImage, model string) (*domain.ClassificationPayload, error) {
	p, err := m.settle(ctx, domain.KindClassification)
	if err != nil {
		return nil, err
	}
	res := p.(domain.ClassificationPayload)
	return &res, nil
}

func (m *MockAnalysisClient) ExtractMetadata(ctx context.Context, img *domain.UploadedImage) (*domain.MetadataPayload, error) {
	p, err := m.settle(ctx, domain.KindMetadata)
	if err != nil {
		return nil, err
	}
	res := p.(domain.MetadataPayload)
	return &res, nil
}

func (m *MockAnalysisClient) ExtractStrings(ctx context.Context, img *domain.UploadedImage, opts ports.StringsOptions) (*domain.StringsPayload, error) {
	p, err := m.settle(ctx, domain.KindStrings)
	if err != nil {
		return nil, err
	}
	res := p.(domain.StringsPayload)
	return &res, nil
}

func (m *MockAnalysisClient) AnalyzeVisual(ctx context.Context, img *domain.UploadedImage, opts ports.VisualOptions) (*domain.VisualPayload, error) {
	p, err := m.settle(ctx, domain.KindVisual)
	if err != nil {
		return nil, err
	}
	res := p.(domain.VisualPayload)
	return &res, nil
}

func (m *MockAnalysisClient) ExtractLSB(ctx context.Context, img *domain.UploadedImage, opts ports.LSBOptions) (*domain.LSBPayload, error) {
	p, err := m.settle(ctx, domain.KindLSB)
	if err != nil {
		return nil, err
	}
	res := p.(domain.LSBPayload)
	return &res, nil
}

func (m *MockAnalysisClient) AnalyzeSuperimposed(ctx context.Context, img *domain.UploadedImage, opts ports.SuperimposedOptions) (*domain.SuperimposedPayload, error) {
	p, err := m.settle(ctx, domain.KindSuperimposed)
	if err != nil {
		return nil, err
	}
	res := p.(domain.SuperimposedPayload)
	return &res, nil
}

func (m *MockAnalysisClient) AnalyzeAll(ctx context.Context, img *domain.UploadedImage, quickMode bool) (*domain.CombinedPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.combined == nil {
		return nil, fmt.Errorf("mock client: no scripted combined payload")
	}
	return m.combined, nil
}

func (m *MockAnalysisClient) Download(ctx context.Context, fileID string, dst io.Writer) (string, error) {
	if _, err := io.Copy(dst, strings.NewReader("mock artifact "+fileID)); err != nil {
		return "", err
	}
	return fileID + ".bin", nil
}

// --- MockHistoryRepository ---

// MockHistoryRepository is an in-memory HistoryRepository with scriptable
// failures.
type MockHistoryRepository struct {
	mu         sync.Mutex
	blob       []domain.ClassificationRecord
	saveCalls  int
	shouldFail bool
	failError  error
}

// NewMockHistoryRepository creates an empty mock repository.
func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

// SetShouldFail scripts Save/Load failures.
func (m *MockHistoryRepository) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// SaveCalls returns how many times Save has been invoked.
func (m *MockHistoryRepository) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

func (m *MockHistoryRepository) Save(ledger []domain.ClassificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.shouldFail {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("mock repository: save failed")
	}
	m.blob = make([]domain.ClassificationRecord, len(ledger))
	copy(m.blob, ledger)
	return nil
}

func (m *MockHistoryRepository) Load() ([]domain.ClassificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("mock repository: load failed")
	}
	ledger := make([]domain.ClassificationRecord, len(m.blob))
	copy(ledger, m.blob)
	return ledger, nil
}

// --- MockNotifier ---

// MockNotifier records pushed events for assertion.
type MockNotifier struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
	nextID int
}

// NewMockNotifier creates an empty mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Push(message string, severity domain.Severity, ttl time.Duration) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("n-%d", m.nextID)
	m.events = append(m.events, domain.NotificationEvent{
		ID:       id,
		Message:  message,
		Severity: severity,
		TTL:      ttl,
	})
	return id
}

func (m *MockNotifier) Dismiss(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, ev := range m.events {
		if ev.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return
		}
	}
}

// Events returns a copy of the events pushed so far.
func (m *MockNotifier) Events() []domain.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]domain.NotificationEvent, len(m.events))
	copy(events, m.events)
	return events
}

// CountBySeverity counts pushed events with the given severity.
func (m *MockNotifier) CountBySeverity(sev domain.Severity) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Severity == sev {
			n++
		}
	}
	return n
}
