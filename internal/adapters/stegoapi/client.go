package stegoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports"
)

const (
	predictPath   = "/api/v1/predict"
	modelsPath    = "/api/v1/models"
	forensicsPath = "/api/forensics"

	// DefaultTimeout bounds every single-module request.
	DefaultTimeout = 30 * time.Second

	// DefaultCombinedTimeout bounds the analyze-all request, which runs
	// four analyzers server-side in one call.
	DefaultCombinedTimeout = 60 * time.Second
)

// Client talks to the steganography analysis service over HTTP. One request
// per call, no retries, no caching; every failure comes back as a typed
// *Error so callers can branch on its kind.
type Client struct {
	baseURL         string
	http            *http.Client
	timeout         time.Duration
	combinedTimeout time.Duration
}

// Ensure it implements the port
var _ ports.AnalysisClient = (*Client)(nil)

// New creates a client for the service at baseURL. Zero durations fall back
// to the defaults.
func New(baseURL string, timeout, combinedTimeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if combinedTimeout <= 0 {
		combinedTimeout = DefaultCombinedTimeout
	}
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{},
		timeout:         timeout,
		combinedTimeout: combinedTimeout,
	}
}

// envelope is the wrapper every forensics endpoint puts around its result.
type envelope struct {
	Success  bool            `json:"success"`
	Filename string          `json:"filename"`
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
}

// ListModels returns the model files available for classification.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+modelsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build models request: %w", err)
	}

	var models []string
	if err := c.do(req, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// Classify runs AI detection. The predict endpoint answers with a flat JSON
// object rather than the forensics envelope.
func (c *Client) Classify(ctx context.Context, img *domain.UploadedImage, model string) (*domain.ClassificationPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fields := map[string]string{}
	if model != "" {
		fields["model_name"] = model
	}
	req, err := c.uploadRequest(ctx, c.baseURL+predictPath, img, fields)
	if err != nil {
		return nil, err
	}

	var payload domain.ClassificationPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ExtractMetadata extracts EXIF, GPS and comment metadata.
func (c *Client) ExtractMetadata(ctx context.Context, img *domain.UploadedImage) (*domain.MetadataPayload, error) {
	var payload domain.MetadataPayload
	if err := c.forensics(ctx, "/metadata", img, nil, c.timeout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ExtractStrings extracts readable strings and pattern matches.
func (c *Client) ExtractStrings(ctx context.Context, img *domain.UploadedImage, opts ports.StringsOptions) (*domain.StringsPayload, error) {
	query := url.Values{}
	if opts.MinLength > 0 {
		query.Set("min_length", strconv.Itoa(opts.MinLength))
	}
	if opts.MaxStrings > 0 {
		query.Set("max_strings", strconv.Itoa(opts.MaxStrings))
	}

	var payload domain.StringsPayload
	if err := c.forensics(ctx, "/strings", img, query, c.timeout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AnalyzeVisual decomposes channels and bit planes.
func (c *Client) AnalyzeVisual(ctx context.Context, img *domain.UploadedImage, opts ports.VisualOptions) (*domain.VisualPayload, error) {
	query := url.Values{}
	query.Set("include_bit_planes", strconv.FormatBool(opts.IncludeBitPlanes))
	query.Set("include_operations", strconv.FormatBool(opts.IncludeOperations))
	query.Set("include_histograms", strconv.FormatBool(opts.IncludeHistograms))

	var payload domain.VisualPayload
	if err := c.forensics(ctx, "/visual", img, query, c.timeout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ExtractLSB extracts data hidden in the least significant bits.
func (c *Client) ExtractLSB(ctx context.Context, img *domain.UploadedImage, opts ports.LSBOptions) (*domain.LSBPayload, error) {
	query := url.Values{}
	if opts.Channels != "" {
		query.Set("channels", opts.Channels)
	}
	if opts.BitOrder != "" {
		query.Set("bit_order", opts.BitOrder)
	}
	if opts.BitsPerChannel > 0 {
		query.Set("bits_per_channel", strconv.Itoa(opts.BitsPerChannel))
	}
	if opts.MaxBytes > 0 {
		query.Set("max_bytes", strconv.FormatInt(opts.MaxBytes, 10))
	}

	var payload domain.LSBPayload
	if err := c.forensics(ctx, "/lsb/extract", img, query, c.timeout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AnalyzeSuperimposed renders superimposed channel/bit-plane images.
func (c *Client) AnalyzeSuperimposed(ctx context.Context, img *domain.UploadedImage, opts ports.SuperimposedOptions) (*domain.SuperimposedPayload, error) {
	query := url.Values{}
	if opts.Mode != "" {
		query.Set("mode", opts.Mode)
	}
	if len(opts.Channels) > 0 {
		query.Set("channels", strings.Join(opts.Channels, ","))
	}
	if len(opts.BitPlanes) > 0 {
		planes := make([]string, len(opts.BitPlanes))
		for i, p := range opts.BitPlanes {
			planes[i] = strconv.Itoa(p)
		}
		query.Set("bit_planes", strings.Join(planes, ","))
	}
	if opts.BlendMode != "" {
		query.Set("blend_mode", opts.BlendMode)
	}

	var payload domain.SuperimposedPayload
	if err := c.forensics(ctx, "/superimposed", img, query, c.timeout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AnalyzeAll runs the combined server-side analysis under the longer
// timeout.
func (c *Client) AnalyzeAll(ctx context.Context, img *domain.UploadedImage, quickMode bool) (*domain.CombinedPayload, error) {
	query := url.Values{}
	query.Set("quick_mode", strconv.FormatBool(quickMode))

	var payload domain.CombinedPayload
	if err := c.forensics(ctx, "/analyze-all", img, query, c.combinedTimeout, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Download streams a server-side extracted artifact to dst and returns the
// filename the service suggests via Content-Disposition.
func (c *Client) Download(ctx context.Context, fileID string, dst io.Writer) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + forensicsPath + "/download/" + url.PathEscape(fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", wrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", serviceError(resp)
	}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return "", wrapTransport(err)
	}
	return downloadFilename(resp, fileID), nil
}

// forensics uploads the image to one forensics endpoint and unwraps the
// response envelope into out.
func (c *Client) forensics(ctx context.Context, path string, img *domain.UploadedImage, query url.Values, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := c.baseURL + forensicsPath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := c.uploadRequest(ctx, endpoint, img, nil)
	if err != nil {
		return err
	}

	var env envelope
	if err := c.do(req, &env); err != nil {
		return err
	}
	if !env.Success {
		detail := env.Error
		if detail == "" {
			detail = "analysis reported failure without detail"
		}
		return &Error{Kind: ErrService, StatusCode: http.StatusOK, Detail: detail}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: ErrService, StatusCode: http.StatusOK, Detail: fmt.Sprintf("malformed response data: %v", err)}
	}
	return nil
}

// uploadRequest builds a multipart POST carrying the image bytes plus any
// extra form fields.
func (c *Client) uploadRequest(ctx context.Context, endpoint string, img *domain.UploadedImage, fields map[string]string) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", img.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, fmt.Errorf("failed to write upload body: %w", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// do executes a request and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serviceError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: ErrService, StatusCode: resp.StatusCode, Detail: fmt.Sprintf("malformed response body: %v", err)}
	}
	return nil
}

// serviceError extracts the failure detail from a non-2xx response. The
// service reports errors as {"detail": "..."}; anything else falls back to
// the raw body.
func serviceError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return &Error{Kind: ErrService, StatusCode: resp.StatusCode, Detail: detail.Detail}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = resp.Status
	}
	return &Error{Kind: ErrService, StatusCode: resp.StatusCode, Detail: text}
}

func downloadFilename(resp *http.Response, fileID string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fileID + ".bin"
}
