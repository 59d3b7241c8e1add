package engine

import "time"

// RecognitionMode selects the engine's internal recognition machinery
// (Tesseract's --oem values).
type RecognitionMode int

const (
	// RecognitionDefault lets the engine choose (flag omitted).
	RecognitionDefault RecognitionMode = -1
	// RecognitionLegacy uses the legacy recognizer only.
	RecognitionLegacy RecognitionMode = 0
	// RecognitionNeural uses the neural-net (LSTM) recognizer only.
	RecognitionNeural RecognitionMode = 1
	// RecognitionCombined uses both recognizers.
	RecognitionCombined RecognitionMode = 2
	// RecognitionAuto uses the engine default, stated explicitly.
	RecognitionAuto RecognitionMode = 3
)

// Thresholding selects the binarization method applied to the page image
// before recognition. Only honored when the probed engine version supports
// configurable thresholding; otherwise the option is omitted from the call.
type Thresholding int

const (
	// ThresholdAuto defers to the engine default.
	ThresholdAuto Thresholding = iota
	// ThresholdLegacyOtsu is the classic global Otsu binarization.
	ThresholdLegacyOtsu
	// ThresholdAdaptiveOtsu is Otsu with adaptation to background changes.
	ThresholdAdaptiveOtsu
	// ThresholdSauvola binarizes using local standard deviation.
	ThresholdSauvola
)

// String returns the string representation of the thresholding method.
func (t Thresholding) String() string {
	switch t {
	case ThresholdAuto:
		return "auto"
	case ThresholdLegacyOtsu:
		return "legacy-otsu"
	case ThresholdAdaptiveOtsu:
		return "adaptive-otsu"
	case ThresholdSauvola:
		return "sauvola"
	default:
		return "unknown"
	}
}

// PSMDefault marks the page-segmentation mode as unset (flag omitted).
const PSMDefault = -1

// DefaultTimeout bounds a single engine invocation when the caller does
// not configure one.
const DefaultTimeout = 180 * time.Second

// Options is the immutable per-run engine configuration. It is resolved
// and validated before any page is processed and never modified afterward;
// the pipeline hands each invocation its own copy via Clone.
type Options struct {
	// Languages is the ordered list of recognition language codes
	// (ISO 639-2/T, e.g. "eng", "fra").
	Languages []string

	// PageSegMode is the engine page-segmentation mode, or PSMDefault
	// to let the engine choose.
	PageSegMode int

	// Recognition selects the recognizer variant.
	Recognition RecognitionMode

	// Thresholding selects the binarization method.
	Thresholding Thresholding

	// Timeout bounds each individual engine invocation.
	Timeout time.Duration

	// UserWords is an optional path to a user-supplied dictionary file.
	UserWords string

	// UserPatterns is an optional path to a user-supplied patterns file.
	UserPatterns string

	// Configs are optional extra engine configuration files, appended to
	// the invocation in order.
	Configs []string

	// ThreadLimit is the engine-internal thread budget for one invocation,
	// resolved once per run by the pipeline. Zero means unmanaged.
	ThreadLimit int
}

// DefaultOptions returns Options with engine-neutral defaults: English,
// engine-chosen segmentation and recognizer, auto thresholding, and the
// default invocation timeout.
func DefaultOptions() Options {
	return Options{
		Languages:    []string{"eng"},
		PageSegMode:  PSMDefault,
		Recognition:  RecognitionDefault,
		Thresholding: ThresholdAuto,
		Timeout:      DefaultTimeout,
	}
}

// Clone creates a deep copy of Options.
func (o Options) Clone() Options {
	out := o
	if o.Languages != nil {
		out.Languages = make([]string, len(o.Languages))
		copy(out.Languages, o.Languages)
	}
	if o.Configs != nil {
		out.Configs = make([]string, len(o.Configs))
		copy(out.Configs, o.Configs)
	}
	return out
}
