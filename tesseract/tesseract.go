// Package tesseract implements the ocrkit engine contract on top of the
// Tesseract command-line program, invoked as a separate process.
//
// The package has two halves: a one-time probe that locates the binary and
// derives version-gated capabilities (see [ProbeBinary]), and the [Engine] that
// delegates each per-page operation to a bounded external invocation.
//
// Requires Tesseract 4.1.1 or newer on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package tesseract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsawler/ocrkit/engine"
	"github.com/tsawler/ocrkit/proc"
)

// capability queries (version listing, language listing) are cheap and not
// page work, so they get a fixed bound instead of the per-call OCR timeout.
const queryTimeout = 10 * time.Second

// Engine runs OCR by spawning the Tesseract binary. It implements
// engine.Engine and is safe for concurrent use: all state set after
// construction is read-only.
type Engine struct {
	caps   *Capabilities
	logger zerolog.Logger
}

// compile-time interface check
var _ engine.Engine = (*Engine)(nil)

// NewEngine wraps probed capabilities in a ready-to-use engine.
// The Capabilities must come from a successful Probe.
func NewEngine(caps *Capabilities, logger zerolog.Logger) *Engine {
	return &Engine{caps: caps, logger: logger}
}

// Capabilities returns the probe report this engine was built from.
func (e *Engine) Capabilities() *Capabilities {
	return e.caps
}

// Version reports the probed Tesseract version.
func (e *Engine) Version(ctx context.Context) (string, error) {
	return e.caps.Version, nil
}

// Languages reports the installed recognition languages, in the order
// Tesseract lists them. The "osd" script-detection data counts as a
// language here because orientation detection depends on it.
func (e *Engine) Languages(ctx context.Context) ([]string, error) {
	res := proc.Run(ctx, proc.Invocation{
		Path:    e.caps.Binary,
		Args:    []string{"--list-langs"},
		Timeout: queryTimeout,
		Logger:  e.logger,
	})
	if res.Status == proc.StatusTimedOut {
		return nil, fmt.Errorf("listing languages: invocation %s timed out", res.ID)
	}
	if res.Status != proc.StatusCompleted {
		return nil, fmt.Errorf("listing languages: %w", res.Err)
	}

	// The list is preceded by a header line:
	// "List of available languages (4):"
	var langs []string
	for _, line := range strings.Split(res.Stdout+res.Stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") {
			continue
		}
		langs = append(langs, line)
	}
	return langs, nil
}

// DetectOrientation runs Tesseract's orientation-and-script detection
// (psm 0) on a page image. Failures of any kind, including timeouts and
// pages with too little text to judge, wrap engine.ErrDetectionFailed;
// the caller assumes an upright page.
func (e *Engine) DetectOrientation(ctx context.Context, image string, opts engine.Options) (engine.Orientation, error) {
	args := []string{"--psm", "0", "-l", "osd"}
	args = appendRecognitionArg(args, opts)
	args = append(args, image, "stdout")

	res := proc.Run(ctx, proc.Invocation{
		Path:    e.caps.Binary,
		Args:    args,
		Env:     threadEnv(opts),
		Timeout: opts.Timeout,
		Logger:  e.logger,
	})
	if res.Status != proc.StatusCompleted {
		return engine.Orientation{}, fmt.Errorf("%w: %s invocation %s", engine.ErrDetectionFailed, res.Status, res.ID)
	}

	orient, err := parseOrientation(res.Stdout + res.Stderr)
	if err != nil {
		return engine.Orientation{}, fmt.Errorf("%w: %v", engine.ErrDetectionFailed, err)
	}
	return orient, nil
}

// DetectSkew estimates the skew angle of a page image in degrees.
// Detection failure is cosmetic-only and yields 0.0, never an error.
func (e *Engine) DetectSkew(ctx context.Context, image string, opts engine.Options) float64 {
	args := []string{"--psm", "2"}
	args = appendLanguageArg(args, opts)
	args = appendRecognitionArg(args, opts)
	args = append(args, image, "stdout")

	res := proc.Run(ctx, proc.Invocation{
		Path:    e.caps.Binary,
		Args:    args,
		Env:     threadEnv(opts),
		Timeout: opts.Timeout,
		Logger:  e.logger,
	})
	if res.Status != proc.StatusCompleted {
		e.logger.Debug().Str("image", image).Stringer("status", res.Status).
			Msg("skew detection did not complete, assuming 0.0")
		return 0.0
	}

	angle, err := parseDeskewAngle(res.Stdout + res.Stderr)
	if err != nil {
		e.logger.Debug().Str("image", image).Err(err).
			Msg("no deskew angle reported, assuming 0.0")
		return 0.0
	}
	return angle
}

// GenerateTextLayer runs recognition on one page image, producing the
// requested text-layer artifact plus a plain-text sidecar. The outcome is
// reported via the tagged Result; a deadline hit returns OutcomeTimedOut
// carrying whatever partial artifacts Tesseract managed to write.
func (e *Engine) GenerateTextLayer(ctx context.Context, req engine.TextLayerRequest, opts engine.Options) engine.Result {
	base := strings.TrimSuffix(req.LayerPath, filepath.Ext(req.LayerPath))

	args := buildArgs(opts, e.caps)
	args = append(args, req.Image, base)
	args = append(args, req.Mode.String(), "txt")
	args = append(args, opts.Configs...)

	res := proc.Run(ctx, proc.Invocation{
		Path:    e.caps.Binary,
		Args:    args,
		Env:     threadEnv(opts),
		Timeout: opts.Timeout,
		Logger:  e.logger,
	})

	switch res.Status {
	case proc.StatusCompleted:
		return engine.Completed(e.collectArtifacts(base, req), res.Duration)

	case proc.StatusTimedOut:
		// Keep whatever Tesseract finished before termination. The page
		// falls back to its pre-OCR rendering either way.
		return engine.TimedOut(e.collectArtifacts(base, req), res.Duration)

	default:
		return engine.Failed(classifyFailure(res), res.Stderr, res.Duration)
	}
}

// CreatorTag identifies this engine for downstream metadata. Sandwich
// (overlay) rendering carries a "-PDF" suffix, matching the text-layer
// form the consumer will see.
func (e *Engine) CreatorTag(mode engine.OutputMode) string {
	tag := ""
	if mode == engine.ModeSearchablePDF {
		tag = "-PDF"
	}
	return fmt.Sprintf("Tesseract OCR%s %s", tag, e.caps.Version)
}

// String describes the engine for logs and diagnostics.
func (e *Engine) String() string {
	return "Tesseract OCR " + e.caps.Version
}

// collectArtifacts maps Tesseract's base-named output files onto the
// requested artifact paths, moving files when the requested names differ.
// Missing files (possible after a timeout) yield empty artifact paths.
func (e *Engine) collectArtifacts(base string, req engine.TextLayerRequest) engine.Artifacts {
	ext := "." + req.Mode.String()
	return engine.Artifacts{
		TextLayer: moveIfExists(base+ext, req.LayerPath),
		Text:      moveIfExists(base+".txt", req.TextPath),
	}
}

// moveIfExists renames src to dst when both are set and differ, returning
// the final path of the artifact or "" when it does not exist.
func moveIfExists(src, dst string) string {
	if _, err := os.Stat(src); err != nil {
		return ""
	}
	if dst == "" || dst == src {
		return src
	}
	if err := os.Rename(src, dst); err != nil {
		return src
	}
	return dst
}

// classifyFailure turns a failed invocation into a caller-facing error,
// promoting the most actionable stderr hints.
func classifyFailure(res proc.Result) error {
	stderr := strings.TrimSpace(res.Stderr)
	if strings.Contains(stderr, "Failed loading language") {
		return fmt.Errorf("tesseract is missing language data; install the "+
			"relevant tesseract-ocr language pack: %w", res.Err)
	}
	if stderr != "" {
		if i := strings.LastIndexByte(stderr, '\n'); i >= 0 {
			stderr = stderr[i+1:]
		}
		return fmt.Errorf("tesseract: %s: %w", stderr, res.Err)
	}
	return fmt.Errorf("tesseract: %w", res.Err)
}
