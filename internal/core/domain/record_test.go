package domain

import (
	"testing"
	"time"
)

func TestClassificationRecordValidate(t *testing.T) {
	valid := ClassificationRecord{Verdict: VerdictStego, Confidence: 0.9, RawScore: 0.9}

	tests := []struct {
		name    string
		mutate  func(*ClassificationRecord)
		wantErr bool
	}{
		{name: "valid stego", mutate: func(r *ClassificationRecord) {}},
		{name: "valid clean", mutate: func(r *ClassificationRecord) { r.Verdict = VerdictClean }},
		{name: "unknown verdict", mutate: func(r *ClassificationRecord) { r.Verdict = "maybe" }, wantErr: true},
		{name: "confidence above one", mutate: func(r *ClassificationRecord) { r.Confidence = 1.2 }, wantErr: true},
		{name: "negative confidence", mutate: func(r *ClassificationRecord) { r.Confidence = -0.1 }, wantErr: true},
		{name: "raw score above one", mutate: func(r *ClassificationRecord) { r.RawScore = 3 }, wantErr: true},
		{name: "boundary zero", mutate: func(r *ClassificationRecord) { r.Confidence = 0; r.RawScore = 0 }},
		{name: "boundary one", mutate: func(r *ClassificationRecord) { r.Confidence = 1; r.RawScore = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			err := rec.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewClassificationRecord(t *testing.T) {
	img := &UploadedImage{
		Name:   "suspect.png",
		Size:   2048,
		Width:  128,
		Height: 256,
	}
	payload := ClassificationPayload{
		Model:         "resnet18_best.pth",
		Prediction:    "stego",
		Confidence:    0.97,
		RawScore:      0.97,
		Probabilities: &ClassProbabilities{Stego: 0.97, Clean: 0.03},
	}

	rec := NewClassificationRecord(img, payload, 340*time.Millisecond)

	if rec.Verdict != VerdictStego {
		t.Errorf("verdict = %s", rec.Verdict)
	}
	if rec.DurationMS != 340 {
		t.Errorf("duration = %d ms, want 340", rec.DurationMS)
	}
	if rec.Filename != "suspect.png" || rec.Dimensions != "128x256" || rec.SizeBytes != 2048 {
		t.Errorf("image facts not carried over: %+v", rec)
	}
	if rec.Probabilities == nil || rec.Probabilities.Stego != 0.97 {
		t.Errorf("probabilities = %+v", rec.Probabilities)
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("record from valid payload must validate: %v", err)
	}
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name   string
		ledger []ClassificationRecord
		want   HistoryStats
	}{
		{name: "empty", ledger: nil, want: HistoryStats{}},
		{
			name: "mixed",
			ledger: []ClassificationRecord{
				{Verdict: VerdictStego},
				{Verdict: VerdictClean},
				{Verdict: VerdictStego},
			},
			want: HistoryStats{Total: 3, Stego: 2, Clean: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStats(tt.ledger); got != tt.want {
				t.Errorf("ComputeStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
