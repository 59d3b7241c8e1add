package raster

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG writes a small PNG image and returns its path.
func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "page.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"page.png", PNG},
		{"page.PNG", PNG},
		{"scan.jpg", JPEG},
		{"scan.jpeg", JPEG},
		{"page.tif", TIFF},
		{"page.tiff", TIFF},
		{"page.bmp", BMP},
		{"page.webp", WebP},
		{"page.pdf", Unknown},
		{"noext", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, JPEG},
		{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00}, TIFF},
		{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A}, TIFF},
		{"bmp", []byte{'B', 'M', 0x76, 0x01}, BMP},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBP"), WebP},
		{"pdf", []byte("%PDF-1.7"), Unknown},
		{"short", []byte{0x89}, Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	path := writePNG(t, 640, 480)

	img, err := Info(path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if img.Format != PNG {
		t.Errorf("expected PNG, got %s", img.Format)
	}
	if img.Width != 640 || img.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", img.Width, img.Height)
	}
}

func TestInfoUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.xyz")
	if err := os.WriteFile(path, []byte("not an image at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Info(path)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestInfoMissingFile(t *testing.T) {
	_, err := Info(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrUnknownFormat) {
		t.Error("a missing file is not a format error")
	}
}

func TestInfoCorruptImage(t *testing.T) {
	// Valid PNG magic, garbage body.
	data := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, []byte("garbage")...)
	path := filepath.Join(t.TempDir(), "corrupt.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Info(path)
	if err == nil {
		t.Fatal("expected error for corrupt image")
	}
	if errors.Is(err, ErrUnknownFormat) {
		t.Error("a corrupt known-format image is not a format error")
	}
}
