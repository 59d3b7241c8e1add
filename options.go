package ocrkit

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/ocrkit/engine"
	"github.com/tsawler/ocrkit/lang"
	"github.com/tsawler/ocrkit/tesseract"
)

// Config is the resolved option source for one run. It combines the
// engine options (languages, segmentation, recognizer, thresholding,
// timeout, user files) with the pipeline facts the orchestration needs:
// worker count, total page count, and the chosen render mode.
//
// Once handed to New the configuration is frozen for the run.
type Config struct {
	// Languages are recognition language codes. Accepts ISO 639-1
	// ("en"), BCP 47 ("en-US"), or Tesseract's native ISO 639-2/T codes
	// ("eng"); all are normalized to the latter. Default: eng.
	Languages []string

	// PageSegMode selects the engine page-segmentation mode. Nil means
	// the engine default. Mode 0 (orientation detection only) is a real
	// mode, so it is distinct from unset.
	PageSegMode *int

	// Recognition selects the recognizer variant (Tesseract --oem). Nil
	// means the engine default; 0 selects the legacy recognizer.
	Recognition *engine.RecognitionMode

	// Thresholding selects the binarization method. Ignored, with a
	// warning, when the probed engine version cannot honor it.
	Thresholding engine.Thresholding

	// Timeout bounds each engine invocation. Default 180s.
	Timeout time.Duration

	// UserWords and UserPatterns are optional paths to user-supplied
	// dictionary and pattern files.
	UserWords    string
	UserPatterns string

	// Configs are extra engine configuration files, passed through in
	// order.
	Configs []string

	// Mode is the text-layer form produced for every page of the run:
	// a searchable-PDF layer for sandwich (overlay) rendering, or hOCR.
	Mode engine.OutputMode

	// Workers is the pipeline's page-level worker count. Zero means one
	// worker per physical CPU core.
	Workers int

	// PageCount is the total page count of the document, used by the
	// thread-budget policy. Zero is treated as one page.
	PageCount int

	// DetectOrientation enables per-page orientation detection before
	// recognition.
	DetectOrientation bool

	// DetectSkew enables per-page skew estimation before recognition.
	DetectSkew bool

	// Binary overrides the engine executable path. Default: "tesseract"
	// resolved on PATH.
	Binary string

	// Logger receives debug and warning diagnostics. Defaults to a
	// no-op logger.
	Logger zerolog.Logger
}

// defaults fills unset fields in place.
func (c *Config) defaults() {
	if len(c.Languages) == 0 {
		c.Languages = []string{"eng"}
	}
	if c.PageSegMode == nil {
		psm := engine.PSMDefault
		c.PageSegMode = &psm
	}
	if c.Recognition == nil {
		rec := engine.RecognitionDefault
		c.Recognition = &rec
	}
	if c.Timeout <= 0 {
		c.Timeout = engine.DefaultTimeout
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers()
	}
	if c.PageCount <= 0 {
		c.PageCount = 1
	}
	if c.Binary == "" {
		c.Binary = tesseract.DefaultBinary
	}
}

// defaultWorkers picks one worker per physical core. OCR is CPU-bound, so
// SMT siblings buy little; physical cores are the honest parallelism.
func defaultWorkers() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// engineOptions builds the immutable per-run engine Options from the
// configuration.
func (c *Config) engineOptions() engine.Options {
	return engine.Options{
		Languages:    append([]string(nil), c.Languages...),
		PageSegMode:  *c.PageSegMode,
		Recognition:  *c.Recognition,
		Thresholding: c.Thresholding,
		Timeout:      c.Timeout,
		UserWords:    c.UserWords,
		UserPatterns: c.UserPatterns,
		Configs:      append([]string(nil), c.Configs...),
	}
}

// fileConfig is the YAML shape of a configuration file. Enumerations are
// spelled by name, and the timeout is in seconds.
type fileConfig struct {
	Languages         []string `yaml:"languages"`
	PageSegMode       *int     `yaml:"page_seg_mode"`
	Recognition       *int     `yaml:"recognition_mode"`
	Thresholding      string   `yaml:"thresholding"`
	TimeoutSeconds    float64  `yaml:"timeout_seconds"`
	UserWords         string   `yaml:"user_words"`
	UserPatterns      string   `yaml:"user_patterns"`
	Configs           []string `yaml:"configs"`
	Mode              string   `yaml:"output_mode"`
	Workers           int      `yaml:"workers"`
	DetectOrientation bool     `yaml:"detect_orientation"`
	DetectSkew        bool     `yaml:"detect_skew"`
	Binary            string   `yaml:"binary"`
}

// LoadConfig reads a YAML configuration file into a Config. Language
// codes are normalized to Tesseract's ISO 639-2/T form; unknown codes or
// enum names fail with a *ConfigurationError.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg := Config{
		UserWords:         fc.UserWords,
		UserPatterns:      fc.UserPatterns,
		Configs:           fc.Configs,
		Workers:           fc.Workers,
		DetectOrientation: fc.DetectOrientation,
		DetectSkew:        fc.DetectSkew,
		Binary:            fc.Binary,
	}

	for _, code := range fc.Languages {
		normalized, err := lang.Normalize(code)
		if err != nil {
			return Config{}, &ConfigurationError{
				Name:   "languages",
				Value:  code,
				Reason: err.Error(),
			}
		}
		cfg.Languages = append(cfg.Languages, normalized)
	}

	cfg.PageSegMode = fc.PageSegMode
	if fc.Recognition != nil {
		rec := engine.RecognitionMode(*fc.Recognition)
		cfg.Recognition = &rec
	}

	if fc.Thresholding != "" {
		th, err := parseThresholding(fc.Thresholding)
		if err != nil {
			return Config{}, err
		}
		cfg.Thresholding = th
	}
	if fc.Mode != "" {
		mode, err := parseOutputMode(fc.Mode)
		if err != nil {
			return Config{}, err
		}
		cfg.Mode = mode
	}
	if fc.TimeoutSeconds < 0 {
		return Config{}, &ConfigurationError{
			Name:   "timeout_seconds",
			Value:  fmt.Sprintf("%v", fc.TimeoutSeconds),
			Reason: "must be non-negative",
		}
	}
	if fc.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(fc.TimeoutSeconds * float64(time.Second))
	}

	return cfg, nil
}

// parseThresholding maps a thresholding method name to its enum value.
func parseThresholding(name string) (engine.Thresholding, error) {
	for _, t := range []engine.Thresholding{
		engine.ThresholdAuto,
		engine.ThresholdLegacyOtsu,
		engine.ThresholdAdaptiveOtsu,
		engine.ThresholdSauvola,
	} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, &ConfigurationError{
		Name:   "thresholding",
		Value:  name,
		Reason: "must be one of auto, legacy-otsu, adaptive-otsu, sauvola",
	}
}

// parseOutputMode maps an output-mode name to its enum value.
func parseOutputMode(name string) (engine.OutputMode, error) {
	switch name {
	case "pdf", "sandwich":
		return engine.ModeSearchablePDF, nil
	case "hocr":
		return engine.ModeHOCR, nil
	}
	return 0, &ConfigurationError{
		Name:   "output_mode",
		Value:  name,
		Reason: "must be pdf, sandwich, or hocr",
	}
}
