package engine

import (
	"context"
	"errors"
)

// ErrDetectionFailed is returned by DetectOrientation when the engine cannot
// determine the page orientation. Callers treat it as "assume no rotation".
var ErrDetectionFailed = errors.New("orientation detection failed")

// Orientation is the result of page-orientation detection.
type Orientation struct {
	// Degrees is the clockwise rotation needed to upright the page.
	// One of 0, 90, 180, 270.
	Degrees int

	// Confidence is the engine's confidence in the detection, where
	// higher is better. The scale is engine-specific.
	Confidence float64
}

// OutputMode selects the form of the generated text layer.
type OutputMode int

const (
	// ModeSearchablePDF produces a PDF text layer suitable for overlaying
	// ("sandwiching") onto the original page image.
	ModeSearchablePDF OutputMode = iota

	// ModeHOCR produces an hOCR (HTML-based) text layer.
	ModeHOCR
)

// String returns the string representation of the output mode.
func (m OutputMode) String() string {
	switch m {
	case ModeSearchablePDF:
		return "pdf"
	case ModeHOCR:
		return "hocr"
	default:
		return "unknown"
	}
}

// TextLayerRequest describes one text-layer generation call.
type TextLayerRequest struct {
	// Image is the path to the rasterized page image.
	Image string

	// Mode selects the text-layer format.
	Mode OutputMode

	// LayerPath is the destination for the text-layer artifact
	// (.pdf or .hocr depending on Mode).
	LayerPath string

	// TextPath is the destination for the plain-text sidecar artifact.
	TextPath string
}

// Engine is the capability contract an OCR engine must satisfy.
//
// Implementations must be safe for concurrent use: the pipeline invokes
// engine operations from multiple page workers at once. All per-call state
// belongs to the arguments and the return values.
type Engine interface {
	// Version reports the engine version string.
	Version(ctx context.Context) (string, error)

	// Languages reports the set of installed recognition languages.
	Languages(ctx context.Context) ([]string, error)

	// DetectOrientation determines the rotation of a page image.
	// It returns ErrDetectionFailed (possibly wrapped) when the engine
	// cannot make a determination; callers assume 0 degrees in that case.
	DetectOrientation(ctx context.Context, image string, opts Options) (Orientation, error)

	// DetectSkew estimates the skew angle of a page image in degrees.
	// Skew correction is best-effort cosmetics: detection failure yields
	// 0.0 and is never surfaced as an error.
	DetectSkew(ctx context.Context, image string, opts Options) float64

	// GenerateTextLayer runs recognition on a page image and writes the
	// requested artifacts. The outcome is reported via the tagged Result;
	// see the package documentation for the outcome contract.
	GenerateTextLayer(ctx context.Context, req TextLayerRequest, opts Options) Result

	// CreatorTag returns a descriptive identification string for embedding
	// in downstream metadata: engine name, version, and render mode.
	// Purely descriptive; it never affects behavior.
	CreatorTag(mode OutputMode) string
}
