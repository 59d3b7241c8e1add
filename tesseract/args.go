package tesseract

import (
	"strconv"
	"strings"

	"github.com/tsawler/ocrkit/engine"
)

// buildArgs translates resolved Options into Tesseract command-line flags
// for a recognition run. Options the probed version cannot honor are
// omitted here; the advisory warning for that is emitted once at
// validation time, not per page.
func buildArgs(opts engine.Options, caps *Capabilities) []string {
	var args []string
	args = appendLanguageArg(args, opts)
	if opts.PageSegMode != engine.PSMDefault {
		args = append(args, "--psm", strconv.Itoa(opts.PageSegMode))
	}
	args = appendRecognitionArg(args, opts)
	if opts.Thresholding != engine.ThresholdAuto && caps.SupportsThresholding {
		args = append(args, "-c", "thresholding_method="+strconv.Itoa(thresholdingValue(opts.Thresholding)))
	}
	if opts.UserWords != "" {
		args = append(args, "--user-words", opts.UserWords)
	}
	if opts.UserPatterns != "" {
		args = append(args, "--user-patterns", opts.UserPatterns)
	}
	return args
}

// appendLanguageArg adds "-l lang1+lang2" when languages are configured.
func appendLanguageArg(args []string, opts engine.Options) []string {
	if len(opts.Languages) > 0 {
		args = append(args, "-l", strings.Join(opts.Languages, "+"))
	}
	return args
}

// appendRecognitionArg adds "--oem N" when a recognizer is selected.
func appendRecognitionArg(args []string, opts engine.Options) []string {
	if opts.Recognition != engine.RecognitionDefault {
		args = append(args, "--oem", strconv.Itoa(int(opts.Recognition)))
	}
	return args
}

// thresholdingValue maps the Thresholding enum onto Tesseract's
// thresholding_method parameter values.
func thresholdingValue(t engine.Thresholding) int {
	switch t {
	case engine.ThresholdAdaptiveOtsu:
		return 1
	case engine.ThresholdSauvola:
		return 2
	default:
		return 0 // legacy Otsu
	}
}

// threadEnv publishes the per-invocation thread budget into the child
// process environment via OMP_THREAD_LIMIT, the knob Tesseract's OpenMP
// runtime honors. Zero means unmanaged and sets nothing.
func threadEnv(opts engine.Options) []string {
	if opts.ThreadLimit <= 0 {
		return nil
	}
	return []string{"OMP_THREAD_LIMIT=" + strconv.Itoa(opts.ThreadLimit)}
}
