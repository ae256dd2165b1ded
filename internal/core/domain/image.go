package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoActiveImage is returned when an analysis is requested before any
// image has been uploaded. It is checked synchronously, before any network
// call is made.
var ErrNoActiveImage = errors.New("no active image: upload an image first")

// SessionToken ties in-flight and completed work to a specific uploaded
// image. Tokens are opaque and monotonically increasing; a settled request
// whose token no longer matches the current one is stale and must be
// ignored.
type SessionToken uint64

// UploadedImage is the currently active subject of analysis. Exactly one
// image is active at a time; replacing it invalidates all module state and
// in-flight requests tied to the previous session token.
type UploadedImage struct {
	Name       string
	Path       string
	MIMEType   string
	Data       []byte
	Size       int64
	Width      int
	Height     int
	UploadedAt time.Time
	Session    SessionToken
}

// Dimensions renders "WxH" for display, or "unknown" when the pixel size
// could not be derived.
func (img *UploadedImage) Dimensions() string {
	if img.Width <= 0 || img.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}

// AspectRatio returns width/height, or 0 when unknown.
func (img *UploadedImage) AspectRatio() float64 {
	if img.Width <= 0 || img.Height <= 0 {
		return 0
	}
	return float64(img.Width) / float64(img.Height)
}
