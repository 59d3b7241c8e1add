package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/blang/semver/v4"
)

const (
	// DefaultBinary is the program name probed on PATH when no explicit
	// path is configured.
	DefaultBinary = "tesseract"

	// MinVersion is the oldest supported Tesseract release (the Ubuntu
	// 20.04 package version).
	MinVersion = "4.1.1"

	// thresholding_method was added in Tesseract 5.
	thresholdingMinVersion = "5.0.0"
)

var (
	// ErrEngineUnavailable means the Tesseract binary could not be located.
	ErrEngineUnavailable = errors.New("tesseract binary not found")

	// ErrVersionTooOld means the installed Tesseract predates MinVersion.
	ErrVersionTooOld = errors.New("tesseract version too old")
)

// Capabilities is the result of probing an installed Tesseract: resolved
// binary path, version, and version-gated feature flags. Read-only after
// creation and shared by every subsequent invocation in a run.
type Capabilities struct {
	// Binary is the resolved path of the probed executable.
	Binary string

	// Version is the reported version string, e.g. "5.3.0".
	Version string

	// SupportsThresholding reports whether the installed version honors
	// the thresholding_method control parameter (Tesseract 5+).
	SupportsThresholding bool
}

// Probe locates the tesseract binary on PATH and checks its version.
// It is idempotent and safe to call repeatedly; callers should keep the
// returned Capabilities for the run rather than re-probing per page.
func Probe(ctx context.Context) (*Capabilities, error) {
	return ProbeBinary(ctx, DefaultBinary)
}

// ProbeBinary probes a specific Tesseract executable.
//
// It fails with ErrEngineUnavailable (wrapped) when the binary cannot be
// located or executed, and ErrVersionTooOld (wrapped) when the detected
// version is below MinVersion.
func ProbeBinary(ctx context.Context, binary string) (*Capabilities, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not installed or not on PATH "+
			"(on Debian/Ubuntu: apt-get install tesseract-ocr)", ErrEngineUnavailable, binary)
	}

	cmd := exec.CommandContext(ctx, path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	// Tesseract 4.x prints its version banner to stderr.
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s --version: %v", ErrEngineUnavailable, path, err)
	}

	version, err := parseVersionBanner(out.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	ver, err := semver.ParseTolerant(version)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse version %q: %v", ErrEngineUnavailable, version, err)
	}
	if ver.LT(semver.MustParse(MinVersion)) {
		return nil, fmt.Errorf("%w: found %s, need %s or newer", ErrVersionTooOld, version, MinVersion)
	}

	return &Capabilities{
		Binary:               path,
		Version:              version,
		SupportsThresholding: ver.GE(semver.MustParse(thresholdingMinVersion)),
	}, nil
}

// parseVersionBanner extracts the version from the first line of
// "tesseract --version" output, e.g. "tesseract 5.3.0" or
// "tesseract v4.1.1" or "tesseract 5.0.0-alpha-20201224".
func parseVersionBanner(banner string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(banner), "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "tesseract") {
		return "", fmt.Errorf("unrecognized version banner %q", line)
	}
	return strings.TrimPrefix(fields[1], "v"), nil
}
