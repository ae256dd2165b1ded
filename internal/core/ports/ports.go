package ports

import (
	"context"
	"io"
	"time"

	"github.com/phamquocan24/steganography/internal/core/domain"
)

// StringsOptions tunes the string extraction module.
type StringsOptions struct {
	MinLength  int
	MaxStrings int
}

// VisualOptions toggles the expensive parts of visual analysis.
type VisualOptions struct {
	IncludeBitPlanes  bool
	IncludeOperations bool
	IncludeHistograms bool
}

// LSBOptions configures least-significant-bit extraction.
type LSBOptions struct {
	Channels       string // e.g. "RGB"
	BitOrder       string // "LSB" | "MSB"
	BitsPerChannel int
	MaxBytes       int64
}

// SuperimposedOptions configures superimposed rendering.
type SuperimposedOptions struct {
	Mode      string // "channels" | "bitplanes" | "both"
	Channels  []string
	BitPlanes []int
	BlendMode string
}

// AnalysisClient is the port to the remote analysis service: one outbound
// request per call, resolving to a typed payload or a typed failure. The
// client performs no retries and no caching; callers own those policies.
type AnalysisClient interface {
	// ListModels returns the model files available for classification.
	ListModels(ctx context.Context) ([]string, error)

	// Classify runs AI steganography detection with the given model
	// (empty string selects the service default).
	Classify(ctx context.Context, img *domain.UploadedImage, model string) (*domain.ClassificationPayload, error)

	// ExtractMetadata extracts EXIF, GPS and comment metadata.
	ExtractMetadata(ctx context.Context, img *domain.UploadedImage) (*domain.MetadataPayload, error)

	// ExtractStrings extracts readable strings and pattern matches.
	ExtractStrings(ctx context.Context, img *domain.UploadedImage, opts StringsOptions) (*domain.StringsPayload, error)

	// AnalyzeVisual decomposes channels and bit planes.
	AnalyzeVisual(ctx context.Context, img *domain.UploadedImage, opts VisualOptions) (*domain.VisualPayload, error)

	// ExtractLSB extracts data hidden in the least significant bits.
	ExtractLSB(ctx context.Context, img *domain.UploadedImage, opts LSBOptions) (*domain.LSBPayload, error)

	// AnalyzeSuperimposed renders superimposed channel/bit-plane images.
	AnalyzeSuperimposed(ctx context.Context, img *domain.UploadedImage, opts SuperimposedOptions) (*domain.SuperimposedPayload, error)

	// AnalyzeAll runs the combined server-side analysis. It uses a longer
	// timeout than individual calls since it does more work per request.
	AnalyzeAll(ctx context.Context, img *domain.UploadedImage, quickMode bool) (*domain.CombinedPayload, error)

	// Download streams a server-side extracted artifact to dst. It returns
	// the filename suggested by the service.
	Download(ctx context.Context, fileID string, dst io.Writer) (string, error)
}

// HistoryRepository persists the serialized ledger as a single blob under a
// fixed key. The ledger is read once at startup and rewritten wholesale on
// every mutation.
type HistoryRepository interface {
	// Save writes the full ledger, replacing any previous blob. It returns
	// only after the write has completed.
	Save(ledger []domain.ClassificationRecord) error

	// Load reads the persisted ledger. A missing blob yields an empty
	// ledger and no error; a corrupt blob yields an error the caller may
	// degrade from.
	Load() ([]domain.ClassificationRecord, error)
}

// Notifier is the port for emitting transient user-facing status events.
type Notifier interface {
	// Push queues an event and returns its generated id. A zero ttl uses
	// the default.
	Push(message string, severity domain.Severity, ttl time.Duration) string

	// Dismiss removes an event immediately. Dismissing an unknown or
	// already-expired id is a no-op.
	Dismiss(id string)
}
