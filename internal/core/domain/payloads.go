package domain

// Typed payloads for each analysis module. Top-level fields mirror the
// service's response schema; deeply nested sub-objects whose shape is
// internal to the analysis engine stay as generic maps.

// ClassProbabilities is the optional per-class probability breakdown
// returned by some models.
type ClassProbabilities struct {
	Stego float64 `json:"stego"`
	Clean float64 `json:"clean"`
}

// ClassificationPayload is the AI detection result.
type ClassificationPayload struct {
	Model         string              `json:"model"`
	Prediction    string              `json:"prediction"` // "stego" | "clean"
	Label         string              `json:"label"`
	Confidence    float64             `json:"confidence"`
	RawScore      float64             `json:"raw_score"`
	Probabilities *ClassProbabilities `json:"probabilities,omitempty"`
}

func (ClassificationPayload) PayloadKind() ModuleKind { return KindClassification }

// SuspiciousFinding is an anomaly flagged by a forensic analyzer.
type SuspiciousFinding struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// MetadataPayload holds EXIF/GPS/comment extraction results.
type MetadataPayload struct {
	Basic              map[string]any      `json:"basic"`
	EXIF               map[string]any      `json:"exif"`
	GPS                map[string]any      `json:"gps"`
	Comments           map[string]any      `json:"comments"`
	SuspiciousFindings []SuspiciousFinding `json:"suspicious_findings"`
}

func (MetadataPayload) PayloadKind() ModuleKind { return KindMetadata }

// StringPatterns groups pattern matches found among extracted strings.
type StringPatterns struct {
	URL     []string `json:"url"`
	Email   []string `json:"email"`
	IPv4    []string `json:"ipv4"`
	Base64  []any    `json:"base64"`
	Hex     []string `json:"hex"`
	CTFFlag []string `json:"ctf_flag"`
	JWT     []string `json:"jwt"`
}

// StringsPayload holds readable-string extraction results.
type StringsPayload struct {
	ASCIIStrings       []string            `json:"ascii_strings"`
	UTF8Strings        []string            `json:"utf8_strings"`
	Patterns           StringPatterns      `json:"patterns"`
	Statistics         map[string]any      `json:"statistics"`
	SuspiciousFindings []SuspiciousFinding `json:"suspicious_findings"`
	TotalUnique        int                 `json:"total_unique_strings"`
}

func (StringsPayload) PayloadKind() ModuleKind { return KindStrings }

// VisualAnomalies is the anomaly section of a visual analysis.
type VisualAnomalies struct {
	AnomaliesDetected bool           `json:"anomalies_detected"`
	Findings          []string       `json:"findings"`
	Metrics           map[string]any `json:"metrics"`
}

// VisualPayload holds channel decomposition and bit-plane results. The
// image sub-objects are base64-encoded renderings keyed by name.
type VisualPayload struct {
	Channels        map[string]any  `json:"channels"`
	BitPlanes       map[string]any  `json:"bit_planes,omitempty"`
	Operations      map[string]any  `json:"operations,omitempty"`
	Histograms      map[string]any  `json:"histograms,omitempty"`
	AnomalyAnalysis VisualAnomalies `json:"anomaly_analysis"`
}

func (VisualPayload) PayloadKind() ModuleKind { return KindVisual }

// LSBAssessment summarizes whether extracted LSB data looks meaningful.
type LSBAssessment struct {
	ContainsHiddenData bool     `json:"contains_hidden_data"`
	ConfidenceScore    int      `json:"confidence_score"`
	Indicators         []string `json:"indicators"`
}

// LSBFileDownload points at a server-side artifact extracted from the
// bit planes, retrievable via the download endpoint.
type LSBFileDownload struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// LSBPayload holds least-significant-bit extraction results.
type LSBPayload struct {
	DataInfo        map[string]any   `json:"data_info"`
	FileDetection   map[string]any   `json:"file_detection"`
	TextAnalysis    map[string]any   `json:"text_analysis"`
	EntropyAnalysis map[string]any   `json:"entropy_analysis"`
	FileDownload    *LSBFileDownload `json:"file_download,omitempty"`
	Assessment      LSBAssessment    `json:"assessment"`
}

func (LSBPayload) PayloadKind() ModuleKind { return KindLSB }

// SuperimposedVerdict is the per-mode interpretation attached to a set of
// superimposed images.
type SuperimposedVerdict struct {
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// SuperimposedPayload holds channel/bit-plane superposition renderings.
type SuperimposedPayload struct {
	SuperimposedImages map[string]any       `json:"superimposed_images"`
	ChannelAnalysis    *SuperimposedVerdict `json:"channel_analysis,omitempty"`
	BitplaneAnalysis   *SuperimposedVerdict `json:"bitplane_analysis,omitempty"`
	CombinedAnalysis   *SuperimposedVerdict `json:"combined_analysis,omitempty"`
}

func (SuperimposedPayload) PayloadKind() ModuleKind { return KindSuperimposed }

// CombinedPayload is the response of the server-side analyze-all call,
// which bundles four forensic modules into one request.
type CombinedPayload struct {
	Metadata *MetadataPayload `json:"metadata"`
	Strings  *StringsPayload  `json:"strings"`
	Visual   *VisualPayload   `json:"visual"`
	LSB      *LSBPayload      `json:"lsb"`
}
