package domain

import (
	"fmt"
	"time"
)

// Verdict is the binary outcome of a classification run. It is taken
// verbatim from the service response, never recomputed client-side.
type Verdict string

const (
	VerdictStego Verdict = "stego"
	VerdictClean Verdict = "clean"
)

// ClassificationRecord is the durable artifact stored in history. Records
// are immutable once created; they are removed only by explicit deletion
// or a full history clear.
type ClassificationRecord struct {
	Verdict       Verdict             `json:"verdict"`
	Confidence    float64             `json:"confidence"`
	RawScore      float64             `json:"raw_score"`
	Model         string              `json:"model"`
	DurationMS    int64               `json:"duration_ms"`
	Filename      string              `json:"filename"`
	Timestamp     time.Time           `json:"timestamp"`
	Dimensions    string              `json:"image_dimensions"`
	SizeBytes     int64               `json:"image_size"`
	Probabilities *ClassProbabilities `json:"probabilities,omitempty"`
}

// Validate checks the record's field invariants before it enters the ledger.
func (r ClassificationRecord) Validate() error {
	if r.Verdict != VerdictStego && r.Verdict != VerdictClean {
		return fmt.Errorf("invalid verdict: %q", r.Verdict)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence out of range: %v", r.Confidence)
	}
	if r.RawScore < 0 || r.RawScore > 1 {
		return fmt.Errorf("raw score out of range: %v", r.RawScore)
	}
	return nil
}

// NewClassificationRecord builds a history record from a successful
// classification run against the given image.
func NewClassificationRecord(img *UploadedImage, p ClassificationPayload, elapsed time.Duration) ClassificationRecord {
	return ClassificationRecord{
		Verdict:       Verdict(p.Prediction),
		Confidence:    p.Confidence,
		RawScore:      p.RawScore,
		Model:         p.Model,
		DurationMS:    elapsed.Milliseconds(),
		Filename:      img.Name,
		Timestamp:     time.Now(),
		Dimensions:    img.Dimensions(),
		SizeBytes:     img.Size,
		Probabilities: p.Probabilities,
	}
}

// HistoryStats are the aggregate counters derived from the ledger. They are
// always recomputable as a pure function of the ledger contents.
type HistoryStats struct {
	Total int `json:"total"`
	Stego int `json:"stego"`
	Clean int `json:"clean"`
}

// ComputeStats derives counters from a ledger slice.
func ComputeStats(ledger []ClassificationRecord) HistoryStats {
	stats := HistoryStats{Total: len(ledger)}
	for _, rec := range ledger {
		if rec.Verdict == VerdictStego {
			stats.Stego++
		} else {
			stats.Clean++
		}
	}
	return stats
}
