package tesseract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/ocrkit/engine"
)

// Orientation-and-script detection output looks like:
//
//	Page number: 0
//	Orientation in degrees: 180
//	Rotate: 180
//	Orientation confidence: 9.95
//	Script: Latin
//	Script confidence: 4.33
//
// Pages with too little text produce "Too few characters. Skipping this
// page" and no orientation lines.

// parseOrientation extracts the rotation and its confidence from OSD
// output. The angle must land on a quarter turn.
func parseOrientation(output string) (engine.Orientation, error) {
	degrees, ok := scanField(output, "Orientation in degrees:")
	if !ok {
		return engine.Orientation{}, fmt.Errorf("no orientation reported")
	}
	deg, err := strconv.Atoi(degrees)
	if err != nil {
		return engine.Orientation{}, fmt.Errorf("bad orientation value %q", degrees)
	}

	deg %= 360
	if deg < 0 {
		deg += 360
	}
	if deg%90 != 0 {
		return engine.Orientation{}, fmt.Errorf("orientation %d is not a quarter turn", deg)
	}

	orient := engine.Orientation{Degrees: deg}
	if conf, ok := scanField(output, "Orientation confidence:"); ok {
		orient.Confidence, _ = strconv.ParseFloat(conf, 64)
	}
	return orient, nil
}

// parseDeskewAngle extracts the "Deskew angle:" value printed during page
// layout analysis.
func parseDeskewAngle(output string) (float64, error) {
	val, ok := scanField(output, "Deskew angle:")
	if !ok {
		return 0, fmt.Errorf("no deskew angle reported")
	}
	angle, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("bad deskew angle %q", val)
	}
	return angle, nil
}

// scanField finds the first line starting with prefix and returns the
// first token after it.
func scanField(output, prefix string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if rest, found := strings.CutPrefix(line, prefix); found {
			fields := strings.Fields(rest)
			if len(fields) > 0 {
				return fields[0], true
			}
		}
	}
	return "", false
}
