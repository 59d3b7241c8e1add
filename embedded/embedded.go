// Package embedded provides an in-process OCR engine backed by the
// Tesseract C library via gosseract. It requires Tesseract to be
// installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// The embedded engine trades capability for deployment simplicity: it
// produces hOCR text layers without spawning a child process, but it
// cannot produce searchable-PDF layers or detect page orientation, and a
// timed-out recognition call cannot be killed - it is abandoned and
// finishes in the background. Pipelines that need the full contract use
// the external-process engine in the tesseract package.
package embedded

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"github.com/tsawler/ocrkit/engine"
)

// Engine runs OCR in-process through libtesseract. It implements
// engine.Engine. A fresh gosseract client is created per invocation, so
// concurrent page workers never share native state.
type Engine struct {
	logger zerolog.Logger
}

var _ engine.Engine = (*Engine)(nil)

// NewEngine creates an embedded engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Version reports the linked libtesseract version.
func (e *Engine) Version(ctx context.Context) (string, error) {
	return gosseract.Version(), nil
}

// Languages reports the installed recognition languages.
func (e *Engine) Languages(ctx context.Context) ([]string, error) {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	return langs, nil
}

// DetectOrientation always fails: gosseract does not expose the
// orientation-and-script detector. Callers assume an upright page, which
// is the defined recovery for this operation.
func (e *Engine) DetectOrientation(ctx context.Context, image string, opts engine.Options) (engine.Orientation, error) {
	return engine.Orientation{}, fmt.Errorf("%w: not supported by the embedded engine", engine.ErrDetectionFailed)
}

// DetectSkew always reports 0.0: skew estimation is not exposed by
// gosseract, and 0.0 is the defined best-effort answer.
func (e *Engine) DetectSkew(ctx context.Context, image string, opts engine.Options) float64 {
	return 0.0
}

// GenerateTextLayer runs in-process recognition. Only hOCR layers are
// supported; ModeSearchablePDF fails hard so the caller can fall back to
// the external engine at configuration time rather than per page.
func (e *Engine) GenerateTextLayer(ctx context.Context, req engine.TextLayerRequest, opts engine.Options) engine.Result {
	start := time.Now()

	if req.Mode != engine.ModeHOCR {
		return engine.Failed(
			fmt.Errorf("embedded engine cannot produce a %s text layer", req.Mode),
			"", time.Since(start))
	}

	type recognition struct {
		hocrText string
		text     string
		err      error
	}
	done := make(chan recognition, 1)

	// The native call cannot be interrupted. On timeout it is abandoned
	// and drains in the background; the buffered channel lets the
	// goroutine finish either way.
	go func() {
		hocrText, text, err := recognize(req.Image, opts)
		done <- recognition{hocrText: hocrText, text: text, err: err}
	}()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = engine.DefaultTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case rec := <-done:
		if rec.err != nil {
			return engine.Failed(rec.err, "", time.Since(start))
		}
		arts, err := writeArtifacts(req, rec.hocrText, rec.text)
		if err != nil {
			return engine.Failed(err, "", time.Since(start))
		}
		return engine.Completed(arts, time.Since(start))

	case <-timer.C:
		e.logger.Debug().Str("image", req.Image).Msg("abandoning in-process recognition after timeout")
		return engine.TimedOut(engine.Artifacts{}, time.Since(start))

	case <-ctx.Done():
		return engine.TimedOut(engine.Artifacts{}, time.Since(start))
	}
}

func recognize(image string, opts engine.Options) (hocrText, text string, err error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(image); err != nil {
		return "", "", fmt.Errorf("setting image: %w", err)
	}
	if len(opts.Languages) > 0 {
		if err := client.SetLanguage(opts.Languages...); err != nil {
			return "", "", fmt.Errorf("setting languages: %w", err)
		}
	}
	if opts.PageSegMode != engine.PSMDefault {
		if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			return "", "", fmt.Errorf("setting page segmentation mode: %w", err)
		}
	}

	hocrText, err = client.HOCRText()
	if err != nil {
		return "", "", fmt.Errorf("recognition failed: %w", err)
	}
	text, err = client.Text()
	if err != nil {
		return "", "", fmt.Errorf("recognition failed: %w", err)
	}
	return hocrText, text, nil
}

// CreatorTag identifies the embedded engine for downstream metadata.
func (e *Engine) CreatorTag(mode engine.OutputMode) string {
	return fmt.Sprintf("Tesseract OCR (embedded) %s", gosseract.Version())
}

// String describes the engine for logs and diagnostics.
func (e *Engine) String() string {
	return "Tesseract OCR (embedded) " + gosseract.Version()
}

// writeArtifacts persists the recognized layers to the requested paths.
func writeArtifacts(req engine.TextLayerRequest, hocrText, text string) (engine.Artifacts, error) {
	if err := os.WriteFile(req.LayerPath, []byte(hocrText), 0o644); err != nil {
		return engine.Artifacts{}, fmt.Errorf("writing hOCR artifact: %w", err)
	}
	arts := engine.Artifacts{TextLayer: req.LayerPath}
	if req.TextPath != "" {
		if err := os.WriteFile(req.TextPath, []byte(text), 0o644); err != nil {
			return arts, fmt.Errorf("writing text artifact: %w", err)
		}
		arts.Text = req.TextPath
	}
	return arts, nil
}
