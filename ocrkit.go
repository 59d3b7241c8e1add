// Package ocrkit orchestrates an external OCR engine on behalf of a
// page-parallel document pipeline.
//
// It decides how many internal threads the engine may use relative to the
// pipeline's own worker count, bounds every engine invocation with a
// timeout, and degrades gracefully: a page whose OCR times out falls back
// to its pre-OCR rendering instead of failing the document.
//
// Basic usage:
//
//	pipe, err := ocrkit.New(ctx, ocrkit.Config{
//	    Languages: []string{"eng"},
//	    Workers:   4,
//	    PageCount: 12,
//	})
//	if err != nil {
//	    // missing binary, version too old, or bad configuration
//	}
//	results, warnings, err := pipe.Run(ctx, pages)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ocrkit.FormatWarnings(warnings))
//	}
//
// The engine contract lives in the engine package; the production
// Tesseract implementation in the tesseract package. Alternate engines
// plug in via NewWithEngine.
package ocrkit

import (
	"context"

	"github.com/tsawler/ocrkit/engine"
	"github.com/tsawler/ocrkit/tesseract"
)

// NewOCREngine probes the configured Tesseract installation and returns a
// ready-to-use engine instance. This is the integration point for pipeline
// drivers that manage page scheduling themselves; most callers want New
// and Pipeline.Run instead.
//
// Startup failures are fatal and actionable: a wrapped
// tesseract.ErrEngineUnavailable or tesseract.ErrVersionTooOld.
func NewOCREngine(ctx context.Context, cfg Config) (engine.Engine, error) {
	cfg.defaults()
	caps, err := tesseract.ProbeBinary(ctx, cfg.Binary)
	if err != nil {
		return nil, err
	}
	return tesseract.NewEngine(caps, cfg.Logger), nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
