package ocrkit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tsawler/ocrkit/engine"
	"github.com/tsawler/ocrkit/hocr"
	"github.com/tsawler/ocrkit/raster"
	"github.com/tsawler/ocrkit/tesseract"
)

// Page is one unit of OCR work: a rasterized page image and the artifact
// destinations. LayerPath and TextPath may be left empty to derive them
// from the image path.
type Page struct {
	// Number is the 1-based page number, used in warnings and results.
	Number int

	// Image is the path to the rasterized page image.
	Image string

	// LayerPath is the destination for the text-layer artifact.
	LayerPath string

	// TextPath is the destination for the plain-text sidecar.
	TextPath string
}

// PageResult is the outcome of processing one page.
type PageResult struct {
	// Page is the 1-based page number.
	Page int

	// Outcome tags how text-layer generation ended.
	Outcome engine.Outcome

	// Artifacts lists the files produced, possibly partial after a
	// timeout.
	Artifacts engine.Artifacts

	// Orientation is the detected page rotation, when detection is
	// enabled. Zero (upright, no confidence) when detection failed.
	Orientation engine.Orientation

	// Skew is the estimated skew angle in degrees, when enabled.
	Skew float64

	// Fallback reports that this page should keep its pre-OCR rendering
	// because the engine timed out.
	Fallback bool

	// Words is the recognized word count, populated for completed hOCR
	// layers.
	Words int

	// Err carries the hard failure for OutcomeFailed pages. Whether a
	// failed page aborts the document or is skipped is the caller's
	// policy.
	Err error
}

// Pipeline coordinates bounded OCR invocations across a document. All
// decisions that involve shared state - the probe, option validation,
// and the thread budget - happen in New; after that the pipeline is
// read-only and Run may be called from any goroutine.
type Pipeline struct {
	cfg  Config
	eng  engine.Engine
	opts engine.Options
	base []Warning // validation warnings, emitted once per run
}

// New probes the configured Tesseract installation, validates the
// options, resolves the thread budget, and returns a ready pipeline.
//
// Failures here are fatal and happen before any page work begins:
// tesseract.ErrEngineUnavailable, tesseract.ErrVersionTooOld, or a
// *ConfigurationError for an invalid thread-budget override.
func New(ctx context.Context, cfg Config) (*Pipeline, error) {
	cfg.defaults()
	caps, err := tesseract.ProbeBinary(ctx, cfg.Binary)
	if err != nil {
		return nil, err
	}
	eng := tesseract.NewEngine(caps, cfg.Logger)
	cfg.Logger.Debug().
		Str("engine", eng.String()).
		Str("binary", caps.Binary).
		Msg("engine probe succeeded")
	return newPipeline(cfg, eng, caps.SupportsThresholding)
}

// NewWithEngine builds a pipeline around any engine implementation,
// skipping the Tesseract probe. The engine is assumed to honor every
// configured option.
func NewWithEngine(cfg Config, eng engine.Engine) (*Pipeline, error) {
	cfg.defaults()
	return newPipeline(cfg, eng, true)
}

func newPipeline(cfg Config, eng engine.Engine, supportsThresholding bool) (*Pipeline, error) {
	budget, err := ComputeThreadBudget(cfg.Workers, cfg.PageCount)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug().
		Int("workers", cfg.Workers).
		Int("pages", cfg.PageCount).
		Int("engine_threads", budget).
		Msg("resolved engine thread budget")

	opts := cfg.engineOptions()
	opts.ThreadLimit = budget

	p := &Pipeline{cfg: cfg, eng: eng, opts: opts}
	p.validate(supportsThresholding)
	return p, nil
}

// Engine returns the engine this pipeline drives.
func (p *Pipeline) Engine() engine.Engine {
	return p.eng
}

// Options returns a copy of the frozen per-run engine options, including
// the resolved thread budget.
func (p *Pipeline) Options() engine.Options {
	return p.opts.Clone()
}

// CreatorTag identifies the engine and render mode of this run for
// embedding in downstream metadata.
func (p *Pipeline) CreatorTag() string {
	return p.eng.CreatorTag(p.cfg.Mode)
}

// Run processes the given pages across the configured worker pool and
// returns one result per page, in input order, plus all warnings.
//
// A page that times out falls back to its original rendering; a page that
// fails hard carries its error in the result. Neither stops the other
// pages: the returned error is non-nil only when ctx is canceled, in which
// case pages that never reached a worker report OutcomeFailed carrying the
// cancellation error.
func (p *Pipeline) Run(ctx context.Context, pages []Page) ([]PageResult, []Warning, error) {
	results := make([]PageResult, len(pages))

	warnings := append([]Warning(nil), p.base...)
	var mu sync.Mutex
	warn := func(page int, msg string) {
		mu.Lock()
		warnings = append(warnings, Warning{Page: page, Message: msg})
		mu.Unlock()
	}

	workers := p.cfg.Workers
	if workers > len(pages) {
		workers = len(pages)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processPage(ctx, pages[i], warn)
			}
		}()
	}

dispatch:
	for i := range pages {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Pages never handed to a worker are reported as failed, not
			// left looking completed.
			for j := i; j < len(pages); j++ {
				results[j] = PageResult{
					Page:    pages[j].Number,
					Outcome: engine.OutcomeFailed,
					Err:     fmt.Errorf("page not processed: %w", ctx.Err()),
				}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	return results, warnings, ctx.Err()
}

// processPage runs the per-page sequence: input sanity check, optional
// orientation and skew detection, then bounded text-layer generation.
func (p *Pipeline) processPage(ctx context.Context, pg Page, warn func(int, string)) PageResult {
	res := PageResult{Page: pg.Number}
	logger := p.cfg.Logger.With().Int("page", pg.Number).Logger()

	info, err := raster.Info(pg.Image)
	switch {
	case err == nil:
		logger.Debug().
			Stringer("format", info.Format).
			Int("width", info.Width).
			Int("height", info.Height).
			Msg("page image inspected")
	case errors.Is(err, raster.ErrUnknownFormat):
		// The engine may still know the format; let it try.
		logger.Debug().Str("image", pg.Image).Msg("unrecognized page image format")
	default:
		res.Outcome = engine.OutcomeFailed
		res.Err = fmt.Errorf("page image unreadable: %w", err)
		return res
	}

	opts := p.opts.Clone()

	if p.cfg.DetectOrientation {
		orient, err := p.eng.DetectOrientation(ctx, pg.Image, opts)
		if err != nil {
			// Recovered locally: an undecidable page is assumed upright.
			logger.Debug().Err(err).Msg("orientation undetermined, assuming upright")
		} else {
			res.Orientation = orient
		}
	}

	if p.cfg.DetectSkew {
		res.Skew = p.eng.DetectSkew(ctx, pg.Image, opts)
	}

	req := engine.TextLayerRequest{
		Image:     pg.Image,
		Mode:      p.cfg.Mode,
		LayerPath: pg.LayerPath,
		TextPath:  pg.TextPath,
	}
	if req.LayerPath == "" {
		req.LayerPath = derivedArtifactPath(pg.Image, p.cfg.Mode)
	}
	if req.TextPath == "" {
		req.TextPath = derivedTextPath(pg.Image)
	}

	out := p.eng.GenerateTextLayer(ctx, req, opts)
	res.Outcome = out.Outcome
	res.Artifacts = out.Artifacts
	res.Err = out.Err

	switch out.Outcome {
	case engine.OutcomeTimedOut:
		res.Fallback = true
		warn(pg.Number, fmt.Sprintf("no text layer after %s, keeping the original page rendering", opts.Timeout))
		logger.Warn().Dur("timeout", opts.Timeout).Msg("OCR timed out, falling back to original page")

	case engine.OutcomeFailed:
		logger.Error().Err(out.Err).Msg("OCR failed for page")

	case engine.OutcomeCompleted:
		if p.cfg.Mode == engine.ModeHOCR && out.Artifacts.TextLayer != "" {
			if doc, err := hocr.ParseFile(out.Artifacts.TextLayer); err == nil {
				res.Words = doc.WordCount()
				logger.Debug().Int("words", res.Words).Msg("text layer generated")
			}
		}
	}

	return res
}

// derivedArtifactPath names the text-layer artifact after the page image.
func derivedArtifactPath(image string, mode engine.OutputMode) string {
	return strings.TrimSuffix(image, filepath.Ext(image)) + "_ocr." + mode.String()
}

// derivedTextPath names the plain-text sidecar after the page image.
func derivedTextPath(image string) string {
	return strings.TrimSuffix(image, filepath.Ext(image)) + "_ocr.txt"
}
