// Package raster provides format detection and dimension probing for
// rasterized page images handed to an OCR engine.
//
// Detection starts from magic bytes rather than the filename, since page
// images arrive from upstream rasterizers with arbitrary temp names.
package raster

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the page-image formats OCR engines accept.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnknownFormat means the data does not match any supported page-image
// format.
var ErrUnknownFormat = errors.New("unrecognized page image format")

// Format represents a supported page-image format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// TIFF indicates a TIFF image.
	TIFF
	// BMP indicates a Windows bitmap image.
	BMP
	// WebP indicates a WebP image.
	WebP
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case WebP:
		return "WebP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tif"
	case BMP:
		return ".bmp"
	case WebP:
		return ".webp"
	default:
		return ""
	}
}

// Detect determines the image format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	case ".webp":
		return WebP
	default:
		return Unknown
	}
}

// DetectFromMagic checks magic bytes to determine the image format.
// This is more reliable than extension-based detection.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PNG magic: \x89PNG
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return PNG
	}

	// JPEG magic: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return JPEG
	}

	// TIFF magic: "II*\x00" (little endian) or "MM\x00*" (big endian)
	if (data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0x00) ||
		(data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == 0x2A) {
		return TIFF
	}

	// BMP magic: BM
	if data[0] == 'B' && data[1] == 'M' {
		return BMP
	}

	// WebP magic: RIFF....WEBP
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return WebP
	}

	return Unknown
}

// Image describes a page image: its detected format and pixel dimensions.
type Image struct {
	Format Format
	Width  int
	Height int
}

// Info inspects a page-image file: format from magic bytes, dimensions
// from the image header.
//
// A file in an unsupported format fails with ErrUnknownFormat (wrapped);
// a missing or corrupt file fails with the underlying error.
func Info(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("opening page image: %w", err)
	}
	defer f.Close()

	head := make([]byte, 16)
	n, err := f.Read(head)
	if err != nil {
		return Image{}, fmt.Errorf("reading page image %s: %w", path, err)
	}

	format := DetectFromMagic(head[:n])
	if format == Unknown {
		return Image{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return Image{}, fmt.Errorf("reading page image %s: %w", path, err)
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Image{}, fmt.Errorf("decoding page image %s: %w", path, err)
	}

	return Image{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
