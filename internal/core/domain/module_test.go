package domain

import (
	"testing"
	"time"
)

func TestParseModuleKind(t *testing.T) {
	tests := []struct {
		input   string
		want    ModuleKind
		wantErr bool
	}{
		{input: "classification", want: KindClassification},
		{input: "metadata", want: KindMetadata},
		{input: "strings", want: KindStrings},
		{input: "visual", want: KindVisual},
		{input: "lsb", want: KindLSB},
		{input: "superimposed", want: KindSuperimposed},
		{input: "exif", wantErr: true},
		{input: "", wantErr: true},
		{input: "LSB", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseModuleKind(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestModuleResultSettled(t *testing.T) {
	tests := []struct {
		status ModuleStatus
		want   bool
	}{
		{StatusIdle, false},
		{StatusRunning, false},
		{StatusSuccess, true},
		{StatusFailed, true},
	}
	for _, tt := range tests {
		r := ModuleResult{Status: tt.status}
		if r.Settled() != tt.want {
			t.Errorf("Settled() for %s = %v, want %v", tt.status, r.Settled(), tt.want)
		}
	}
}

func TestModuleResultElapsed(t *testing.T) {
	start := time.Now()
	r := ModuleResult{StartedAt: start, CompletedAt: start.Add(250 * time.Millisecond)}
	if r.Elapsed() != 250*time.Millisecond {
		t.Errorf("Elapsed() = %v", r.Elapsed())
	}

	unsettled := ModuleResult{StartedAt: start}
	if unsettled.Elapsed() != 0 {
		t.Errorf("Elapsed() for running module = %v, want 0", unsettled.Elapsed())
	}
}

func TestUploadedImageDimensions(t *testing.T) {
	img := &UploadedImage{Width: 800, Height: 600}
	if img.Dimensions() != "800x600" {
		t.Errorf("Dimensions() = %s", img.Dimensions())
	}
	if img.AspectRatio() != 800.0/600.0 {
		t.Errorf("AspectRatio() = %v", img.AspectRatio())
	}

	unknown := &UploadedImage{}
	if unknown.Dimensions() != "unknown" {
		t.Errorf("Dimensions() = %s, want unknown", unknown.Dimensions())
	}
	if unknown.AspectRatio() != 0 {
		t.Errorf("AspectRatio() = %v, want 0", unknown.AspectRatio())
	}
}
