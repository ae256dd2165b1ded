package imageinfo

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/phamquocan24/steganography/internal/core/domain"
)

// supportedExtensions mirrors the formats the analysis service accepts.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// Supported reports whether the file extension looks like an analyzable
// image.
func Supported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads an image file into an UploadedImage, probing pixel dimensions
// where a decoder is registered. Unknown formats still load; their
// dimensions stay zero and render as "unknown".
func Load(path string) (*domain.UploadedImage, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("unsupported image type: %s", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image file is empty: %s", path)
	}

	img := &domain.UploadedImage{
		Name:       filepath.Base(path),
		Path:       path,
		MIMEType:   mimeType(path),
		Data:       data,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}

	// Dimension probing is best effort: TIFF has no registered decoder
	// here and corrupt headers are the service's problem to report.
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}

	return img, nil
}

func mimeType(path string) string {
	if mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
