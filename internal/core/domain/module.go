package domain

import (
	"fmt"
	"time"
)

// ModuleKind identifies one independently-runnable analysis module.
type ModuleKind string

const (
	KindClassification ModuleKind = "classification"
	KindMetadata       ModuleKind = "metadata"
	KindStrings        ModuleKind = "strings"
	KindVisual         ModuleKind = "visual"
	KindLSB            ModuleKind = "lsb"
	KindSuperimposed   ModuleKind = "superimposed"
)

// AllModuleKinds lists every module in display order.
// RunAll fans out over this slice.
var AllModuleKinds = []ModuleKind{
	KindClassification,
	KindMetadata,
	KindStrings,
	KindVisual,
	KindLSB,
	KindSuperimposed,
}

// ForensicModuleKinds lists the modules covered by the server-side
// combined analysis, excluding AI classification.
var ForensicModuleKinds = []ModuleKind{
	KindMetadata,
	KindStrings,
	KindVisual,
	KindLSB,
	KindSuperimposed,
}

// ParseModuleKind converts a user-supplied string to a ModuleKind
func ParseModuleKind(s string) (ModuleKind, error) {
	for _, k := range AllModuleKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown analysis module: %q", s)
}

// ModuleStatus is the lifecycle state of one module for the current session
type ModuleStatus string

const (
	StatusIdle    ModuleStatus = "idle"
	StatusRunning ModuleStatus = "running"
	StatusSuccess ModuleStatus = "success"
	StatusFailed  ModuleStatus = "failed"
)

// ModulePayload is the kind-specific result data carried by a successful
// ModuleResult. The orchestrator treats payloads as opaque; display code
// switches on Kind() to recover the concrete type.
type ModulePayload interface {
	PayloadKind() ModuleKind
}

// ModuleResult is the outcome of one analysis module for one uploaded image.
//
// Invariants: Payload is non-nil iff Status is success; Err is non-empty iff
// Status is failed. A result belongs to exactly one session token and is
// discarded wholesale when the session changes.
type ModuleResult struct {
	Kind        ModuleKind
	Status      ModuleStatus
	Payload     ModulePayload
	Err         string
	Session     SessionToken
	StartedAt   time.Time
	CompletedAt time.Time
}

// Elapsed returns the wall-clock duration of a settled run, or zero if the
// module has not completed.
func (r ModuleResult) Elapsed() time.Duration {
	if r.CompletedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Settled reports whether the module reached a terminal state.
func (r ModuleResult) Settled() bool {
	return r.Status == StatusSuccess || r.Status == StatusFailed
}
