// Package lang normalizes recognition language codes to the ISO 639-2/T
// three-letter form Tesseract traineddata files are named after.
//
// Input may be ISO 639-1 ("en"), BCP 47 ("en-US"), or an already-native
// Tesseract code ("eng", "chi_sim", "osd"); the latter pass through
// unchanged.
package lang

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Normalize converts a language code to Tesseract's three-letter form.
// Unknown codes fail with an error naming the offending input.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}

	if isNativeCode(code) {
		return code, nil
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("unknown language code %q", code)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("language code %q has no base language", code)
	}
	return base.ISO3(), nil
}

// NormalizeAll normalizes a list of language codes, preserving order.
func NormalizeAll(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized, err := Normalize(code)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}

// Join combines language codes into Tesseract's "+"-separated list form,
// e.g. "eng+fra".
func Join(codes []string) string {
	return strings.Join(codes, "+")
}

// isNativeCode reports whether code already looks like a Tesseract
// traineddata name: three lowercase letters with an optional script
// suffix ("eng", "chi_sim", "deu_frak"), or one of the special data
// packs ("osd", "equ").
func isNativeCode(code string) bool {
	base, _, _ := strings.Cut(code, "_")
	if len(base) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}
