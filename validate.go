package ocrkit

import (
	"fmt"

	"github.com/tsawler/ocrkit/engine"
)

// validate runs the one-time option checks before any page is processed.
// It emits run-level warnings and strips options the probed engine cannot
// honor, so per-page invocations never have to re-check.
func (p *Pipeline) validate(supportsThresholding bool) {
	// Segmentation modes 0 (orientation detection only) and 2 (layout
	// analysis only) skip recognition entirely.
	if p.opts.PageSegMode == 0 || p.opts.PageSegMode == 2 {
		p.warnRunLevel(fmt.Sprintf(
			"page segmentation mode %d disables text recognition; pages will produce no text layer",
			p.opts.PageSegMode))
	}

	if p.opts.Thresholding != engine.ThresholdAuto && !supportsThresholding {
		p.warnRunLevel(fmt.Sprintf(
			"the installed engine does not support configurable thresholding; the %s setting will be ignored",
			p.opts.Thresholding))
		p.opts.Thresholding = engine.ThresholdAuto
	}
}

// warnRunLevel records a validation warning and logs it.
func (p *Pipeline) warnRunLevel(msg string) {
	p.base = append(p.base, Warning{Message: msg})
	p.cfg.Logger.Warn().Msg(msg)
}
