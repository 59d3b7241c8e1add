package tesseract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeFakeBinary creates an executable shell script standing in for the
// tesseract binary.
func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries are shell scripts")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbeBinaryMissing(t *testing.T) {
	_, err := ProbeBinary(context.Background(), "no-such-tesseract-binary")
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestProbeBinaryModernVersion(t *testing.T) {
	bin := writeFakeBinary(t, `echo "tesseract 5.3.0"
echo " leptonica-1.82.0"`)

	caps, err := ProbeBinary(context.Background(), bin)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if caps.Version != "5.3.0" {
		t.Errorf("expected version 5.3.0, got %q", caps.Version)
	}
	if !caps.SupportsThresholding {
		t.Error("5.3.0 should support thresholding")
	}
	if caps.Binary != bin {
		t.Errorf("expected resolved binary %q, got %q", bin, caps.Binary)
	}
}

func TestProbeBinaryMinimumVersion(t *testing.T) {
	bin := writeFakeBinary(t, `echo "tesseract 4.1.1" 1>&2`)

	caps, err := ProbeBinary(context.Background(), bin)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if caps.SupportsThresholding {
		t.Error("4.1.1 must not report thresholding support")
	}
}

func TestProbeBinaryTooOld(t *testing.T) {
	bin := writeFakeBinary(t, `echo "tesseract 4.0.0"`)

	_, err := ProbeBinary(context.Background(), bin)
	if !errors.Is(err, ErrVersionTooOld) {
		t.Fatalf("expected ErrVersionTooOld, got %v", err)
	}
}

func TestProbeBinaryIdempotent(t *testing.T) {
	bin := writeFakeBinary(t, `echo "tesseract 5.0.0-alpha-20201224"`)

	first, err := ProbeBinary(context.Background(), bin)
	if err != nil {
		t.Fatalf("first probe failed: %v", err)
	}
	second, err := ProbeBinary(context.Background(), bin)
	if err != nil {
		t.Fatalf("second probe failed: %v", err)
	}
	if *first != *second {
		t.Errorf("probe not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseVersionBanner(t *testing.T) {
	tests := []struct {
		name    string
		banner  string
		want    string
		wantErr bool
	}{
		{"modern", "tesseract 5.3.0\n leptonica-1.82.0", "5.3.0", false},
		{"v-prefixed", "tesseract v4.1.1\n", "4.1.1", false},
		{"prerelease", "tesseract 5.0.0-alpha-20201224", "5.0.0-alpha-20201224", false},
		{"empty", "", "", true},
		{"wrong program", "gs 9.55.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionBanner(tt.banner)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
