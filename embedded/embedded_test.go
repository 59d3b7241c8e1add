package embedded

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tsawler/ocrkit/engine"
)

func testEngine() *Engine {
	return NewEngine(zerolog.New(os.Stderr).Level(zerolog.Disabled))
}

func TestDetectOrientationUnsupported(t *testing.T) {
	e := testEngine()

	_, err := e.DetectOrientation(context.Background(), "page.png", engine.Options{})
	if !errors.Is(err, engine.ErrDetectionFailed) {
		t.Errorf("expected ErrDetectionFailed, got %v", err)
	}
}

func TestDetectSkewReportsZero(t *testing.T) {
	e := testEngine()

	if angle := e.DetectSkew(context.Background(), "page.png", engine.Options{}); angle != 0.0 {
		t.Errorf("expected 0.0, got %f", angle)
	}
}

func TestGenerateTextLayerRejectsPDFMode(t *testing.T) {
	e := testEngine()

	res := e.GenerateTextLayer(context.Background(), engine.TextLayerRequest{
		Image:     "page.png",
		LayerPath: filepath.Join(t.TempDir(), "page.pdf"),
		Mode:      engine.ModeSearchablePDF,
	}, engine.Options{PageSegMode: engine.PSMDefault})

	if res.Outcome != engine.OutcomeFailed {
		t.Fatalf("expected OutcomeFailed, got %v", res.Outcome)
	}
	if res.Err == nil {
		t.Error("expected an error describing the unsupported mode")
	}
}

func TestGenerateTextLayerHOCR(t *testing.T) {
	// Recognition needs language data installed alongside the library.
	if os.Getenv("OCRKIT_EMBEDDED_TESTS") == "" {
		t.Skip("set OCRKIT_EMBEDDED_TESTS=1 to run in-process recognition tests")
	}

	e := testEngine()
	dir := t.TempDir()

	res := e.GenerateTextLayer(context.Background(), engine.TextLayerRequest{
		Image:     filepath.Join("testdata", "sample.png"),
		LayerPath: filepath.Join(dir, "sample.hocr"),
		TextPath:  filepath.Join(dir, "sample.txt"),
		Mode:      engine.ModeHOCR,
	}, engine.Options{Languages: []string{"eng"}, PageSegMode: engine.PSMDefault})

	if res.Outcome != engine.OutcomeCompleted {
		t.Fatalf("expected OutcomeCompleted, got %v: %v", res.Outcome, res.Err)
	}
	if _, err := os.Stat(res.Artifacts.TextLayer); err != nil {
		t.Errorf("missing hOCR artifact: %v", err)
	}
}
