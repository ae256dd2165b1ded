package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports"
)

// RunConfig carries the per-module request options for a run. The zero
// value asks the service for its defaults everywhere.
type RunConfig struct {
	Model        string
	Strings      ports.StringsOptions
	Visual       ports.VisualOptions
	LSB          ports.LSBOptions
	Superimposed ports.SuperimposedOptions
}

// Settlement is delivered on a run's channel when the module's request
// resolves. Applied is false when the outcome arrived for a superseded
// session or run and was discarded without touching module state.
type Settlement struct {
	Kind    domain.ModuleKind
	Applied bool
	Result  domain.ModuleResult
}

// Orchestrator owns the active image, the session token and one state
// machine per analysis module. All state transitions go through its single
// mutex; network calls run on their own goroutines and re-enter through
// settle, where stale outcomes are discarded.
type Orchestrator struct {
	mu       sync.Mutex
	client   ports.AnalysisClient
	history  *HistoryService
	notifier ports.Notifier

	active  *domain.UploadedImage
	session domain.SessionToken
	modules map[domain.ModuleKind]*moduleSlot
}

// moduleSlot tracks one module's current result plus a per-module run
// counter. A settling request must match both the session token and the
// run it was dispatched as, so a rerun of the same module supersedes the
// previous in-flight request.
type moduleSlot struct {
	result domain.ModuleResult
	run    uint64
}

// NewOrchestrator wires the analysis client, history store and notifier
// together. All module slots start idle with no active image.
func NewOrchestrator(client ports.AnalysisClient, history *HistoryService, notifier ports.Notifier) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		history:  history,
		notifier: notifier,
		modules:  make(map[domain.ModuleKind]*moduleSlot),
	}
	for _, kind := range domain.AllModuleKinds {
		o.modules[kind] = &moduleSlot{result: domain.ModuleResult{Kind: kind, Status: domain.StatusIdle}}
	}
	return o
}

// SetActiveImage replaces the analysis subject. The session token advances,
// every module resets to idle, and anything still in flight for the old
// image becomes stale.
func (o *Orchestrator) SetActiveImage(img *domain.UploadedImage) (domain.SessionToken, error) {
	if img == nil || len(img.Data) == 0 {
		return 0, fmt.Errorf("cannot activate empty image")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.session++
	img.Session = o.session
	o.active = img
	o.resetModulesLocked()
	return o.session, nil
}

// ClearActiveImage drops the subject and resets all module state. The
// token still advances so late settlements for the dropped image are
// discarded.
func (o *Orchestrator) ClearActiveImage() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session++
	o.active = nil
	o.resetModulesLocked()
}

func (o *Orchestrator) resetModulesLocked() {
	for kind, slot := range o.modules {
		slot.result = domain.ModuleResult{Kind: kind, Status: domain.StatusIdle, Session: o.session}
	}
}

// ActiveImage returns the current subject, or nil.
func (o *Orchestrator) ActiveImage() *domain.UploadedImage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Session returns the current session token.
func (o *Orchestrator) Session() domain.SessionToken {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// ModuleState returns the current result for one module.
func (o *Orchestrator) ModuleState(kind domain.ModuleKind) domain.ModuleResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	if slot, ok := o.modules[kind]; ok {
		return slot.result
	}
	return domain.ModuleResult{Kind: kind, Status: domain.StatusIdle}
}

// Snapshot returns the current result of every module.
func (o *Orchestrator) Snapshot() map[domain.ModuleKind]domain.ModuleResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := make(map[domain.ModuleKind]domain.ModuleResult, len(o.modules))
	for kind, slot := range o.modules {
		snap[kind] = slot.result
	}
	return snap
}

// RunModule dispatches one analysis module against the active image. It
// fails fast with domain.ErrNoActiveImage when nothing is uploaded;
// otherwise the module transitions to running and the returned channel
// delivers exactly one Settlement when the request resolves. Re-running a
// module that is already in flight supersedes the earlier run: the old
// request keeps executing but its outcome is discarded on arrival.
func (o *Orchestrator) RunModule(ctx context.Context, kind domain.ModuleKind, cfg RunConfig) (<-chan Settlement, error) {
	o.mu.Lock()
	slot, ok := o.modules[kind]
	if !ok {
		o.mu.Unlock()
		return nil, fmt.Errorf("unknown analysis module: %q", kind)
	}
	if o.active == nil {
		o.mu.Unlock()
		return nil, domain.ErrNoActiveImage
	}
	img := o.active
	token := o.session
	slot.run++
	run := slot.run
	started := time.Now()
	slot.result = domain.ModuleResult{
		Kind:      kind,
		Status:    domain.StatusRunning,
		Session:   token,
		StartedAt: started,
	}
	o.mu.Unlock()

	ch := make(chan Settlement, 1)
	go func() {
		payload, err := o.invoke(ctx, kind, img, cfg)
		ch <- o.settle(kind, token, run, img, started, payload, err)
		close(ch)
	}()
	return ch, nil
}

// RunAll fans RunModule out over the given kinds (every module when none
// are named) and merges the settlements onto one channel, which closes
// after all dispatched modules have settled. Modules fail independently;
// one failure never aborts the siblings.
func (o *Orchestrator) RunAll(ctx context.Context, cfg RunConfig, kinds ...domain.ModuleKind) (<-chan Settlement, error) {
	if len(kinds) == 0 {
		kinds = domain.AllModuleKinds
	}

	channels := make([]<-chan Settlement, 0, len(kinds))
	for _, kind := range kinds {
		ch, err := o.RunModule(ctx, kind, cfg)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}

	merged := make(chan Settlement, len(channels))
	var wg sync.WaitGroup
	for _, ch := range channels {
		wg.Add(1)
		go func(ch <-chan Settlement) {
			defer wg.Done()
			for s := range ch {
				merged <- s
			}
		}(ch)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()
	return merged, nil
}

// RunCombined runs the server-side analyze-all call, which covers
// metadata, strings, visual and LSB in a single request. All four modules
// transition together; the response is split into per-module settlements
// with the same stale-discard rules as individual runs.
func (o *Orchestrator) RunCombined(ctx context.Context, quick bool) (<-chan Settlement, error) {
	kinds := []domain.ModuleKind{domain.KindMetadata, domain.KindStrings, domain.KindVisual, domain.KindLSB}

	o.mu.Lock()
	if o.active == nil {
		o.mu.Unlock()
		return nil, domain.ErrNoActiveImage
	}
	img := o.active
	token := o.session
	started := time.Now()
	runs := make(map[domain.ModuleKind]uint64, len(kinds))
	for _, kind := range kinds {
		slot := o.modules[kind]
		slot.run++
		runs[kind] = slot.run
		slot.result = domain.ModuleResult{
			Kind:      kind,
			Status:    domain.StatusRunning,
			Session:   token,
			StartedAt: started,
		}
	}
	o.mu.Unlock()

	ch := make(chan Settlement, len(kinds))
	go func() {
		defer close(ch)
		combined, err := o.client.AnalyzeAll(ctx, img, quick)
		for _, kind := range kinds {
			var payload domain.ModulePayload
			moduleErr := err
			if err == nil {
				payload = combinedPart(combined, kind)
				if payload == nil {
					moduleErr = fmt.Errorf("combined analysis returned no %s section", kind)
				}
			}
			ch <- o.settle(kind, token, runs[kind], img, started, payload, moduleErr)
		}
	}()
	return ch, nil
}

func combinedPart(p *domain.CombinedPayload, kind domain.ModuleKind) domain.ModulePayload {
	if p == nil {
		return nil
	}
	switch kind {
	case domain.KindMetadata:
		if p.Metadata != nil {
			return *p.Metadata
		}
	case domain.KindStrings:
		if p.Strings != nil {
			return *p.Strings
		}
	case domain.KindVisual:
		if p.Visual != nil {
			return *p.Visual
		}
	case domain.KindLSB:
		if p.LSB != nil {
			return *p.LSB
		}
	}
	return nil
}

func (o *Orchestrator) invoke(ctx context.Context, kind domain.ModuleKind, img *domain.UploadedImage, cfg RunConfig) (domain.ModulePayload, error) {
	switch kind {
	case domain.KindClassification:
		p, err := o.client.Classify(ctx, img, cfg.Model)
		if err != nil {
			return nil, err
		}
		return *p, nil
	case domain.KindMetadata:
		p, err := o.client.ExtractMetadata(ctx, img)
		if err != nil {
			return nil, err
		}
		return *p, nil
	case domain.KindStrings:
		p, err := o.client.ExtractStrings(ctx, img, cfg.Strings)
		if err != nil {
			return nil, err
		}
		return *p, nil
	case domain.KindVisual:
		p, err := o.client.AnalyzeVisual(ctx, img, cfg.Visual)
		if err != nil {
			return nil, err
		}
		return *p, nil
	case domain.KindLSB:
		p, err := o.client.ExtractLSB(ctx, img, cfg.LSB)
		if err != nil {
			return nil, err
		}
		return *p, nil
	case domain.KindSuperimposed:
		p, err := o.client.AnalyzeSuperimposed(ctx, img, cfg.Superimposed)
		if err != nil {
			return nil, err
		}
		return *p, nil
	default:
		return nil, fmt.Errorf("unknown analysis module: %q", kind)
	}
}

// settle applies one resolved request to module state. The outcome is
// discarded without side effects when the session token or the run counter
// has moved on since dispatch.
func (o *Orchestrator) settle(kind domain.ModuleKind, token domain.SessionToken, run uint64, img *domain.UploadedImage, started time.Time, payload domain.ModulePayload, err error) Settlement {
	completed := time.Now()
	result := domain.ModuleResult{
		Kind:        kind,
		Session:     token,
		StartedAt:   started,
		CompletedAt: completed,
	}
	if err != nil {
		result.Status = domain.StatusFailed
		result.Err = err.Error()
	} else {
		result.Status = domain.StatusSuccess
		result.Payload = payload
	}

	o.mu.Lock()
	slot := o.modules[kind]
	stale := token != o.session || run != slot.run
	if !stale {
		slot.result = result
	}
	o.mu.Unlock()

	if stale {
		return Settlement{Kind: kind, Applied: false, Result: result}
	}

	if err != nil {
		if o.notifier != nil {
			o.notifier.Push(fmt.Sprintf("%s analysis failed: %v", kind, err), domain.SeverityError, 0)
		}
	} else if kind == domain.KindClassification {
		o.recordClassification(img, payload.(domain.ClassificationPayload), completed.Sub(started))
	}
	return Settlement{Kind: kind, Applied: true, Result: result}
}

func (o *Orchestrator) recordClassification(img *domain.UploadedImage, p domain.ClassificationPayload, elapsed time.Duration) {
	if o.history != nil {
		rec := domain.NewClassificationRecord(img, p, elapsed)
		if err := o.history.Record(rec); err != nil && o.notifier != nil {
			o.notifier.Push(fmt.Sprintf("History record rejected: %v", err), domain.SeverityError, 0)
			return
		}
	}
	if o.notifier != nil {
		message := fmt.Sprintf("Analysis complete: %s is %s (%.1f%% confidence)", img.Name, p.Prediction, p.Confidence*100)
		o.notifier.Push(message, domain.SeveritySuccess, 0)
	}
}
