// Package hocr parses hOCR documents, the HTML-based format OCR engines
// use to report recognized text with positional data.
//
// The hOCR hierarchy is represented as Document → Pages → Lines → Words,
// each carrying its bounding box. Elements are identified by their hOCR
// class attributes: ocr_page, ocr_line (and its caption/header/textfloat
// variants), and ocrx_word.
//
//	doc, err := hocr.ParseFile("page.hocr")
//	fmt.Println(doc.WordCount(), "words")
package hocr

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// BBox is a bounding box in image pixel coordinates, x0 y0 (top left) to
// x1 y1 (bottom right).
type BBox struct {
	X0, Y0, X1, Y1 int
}

// Width returns the box width in pixels.
func (b BBox) Width() int { return b.X1 - b.X0 }

// Height returns the box height in pixels.
func (b BBox) Height() int { return b.Y1 - b.Y0 }

// Word is a single recognized word.
type Word struct {
	// Text is the recognized text.
	Text string

	// BBox locates the word on the page image.
	BBox BBox

	// Confidence is the recognition confidence in percent (x_wconf),
	// 0 when not reported.
	Confidence float64
}

// Line is one line of recognized text.
type Line struct {
	Words []Word
	BBox  BBox
}

// Text joins the line's words with spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Page is one page of recognized content.
type Page struct {
	Lines []Line
	BBox  BBox
}

// Document is a parsed hOCR document.
type Document struct {
	Pages []Page
}

// WordCount returns the total number of recognized words.
func (d *Document) WordCount() int {
	n := 0
	for _, p := range d.Pages {
		for _, l := range p.Lines {
			n += len(l.Words)
		}
	}
	return n
}

// Text returns the document's plain text, lines joined with newlines and
// pages separated by blank lines.
func (d *Document) Text() string {
	var sb strings.Builder
	for pi, p := range d.Pages {
		if pi > 0 {
			sb.WriteString("\n\n")
		}
		for li, l := range p.Lines {
			if li > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(l.Text())
		}
	}
	return sb.String()
}

// ParseFile parses an hOCR file.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hOCR file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses hOCR content from a reader.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	doc := &Document{}
	walk(root, func(n *html.Node) bool {
		if hasClass(n, "ocr_page") {
			doc.Pages = append(doc.Pages, parsePage(n))
			return false // parsePage handles the subtree
		}
		return true
	})
	return doc, nil
}

// lineClasses are the hOCR classes that behave as text lines.
var lineClasses = []string{"ocr_line", "ocr_caption", "ocr_header", "ocr_textfloat"}

func parsePage(n *html.Node) Page {
	page := Page{BBox: parseBBox(attr(n, "title"))}
	walk(n, func(c *html.Node) bool {
		if c == n {
			return true
		}
		for _, cls := range lineClasses {
			if hasClass(c, cls) {
				page.Lines = append(page.Lines, parseLine(c))
				return false
			}
		}
		return true
	})
	return page
}

func parseLine(n *html.Node) Line {
	line := Line{BBox: parseBBox(attr(n, "title"))}
	walk(n, func(c *html.Node) bool {
		if c == n {
			return true
		}
		if hasClass(c, "ocrx_word") {
			title := attr(c, "title")
			line.Words = append(line.Words, Word{
				Text:       strings.TrimSpace(textContent(c)),
				BBox:       parseBBox(title),
				Confidence: parseWConf(title),
			})
			return false
		}
		return true
	})
	return line
}

// walk visits n and its descendants in document order. The visitor
// returns false to skip a node's subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether an element node carries the given class.
func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// parseBBox extracts "bbox x0 y0 x1 y1" from an hOCR title attribute,
// e.g. `bbox 36 92 618 610; ppageno 0`.
func parseBBox(title string) BBox {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) == 5 && fields[0] == "bbox" {
			var vals [4]int
			for i := 0; i < 4; i++ {
				v, err := strconv.Atoi(fields[i+1])
				if err != nil {
					return BBox{}
				}
				vals[i] = v
			}
			return BBox{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}
		}
	}
	return BBox{}
}

// parseWConf extracts the "x_wconf N" recognition confidence from an hOCR
// title attribute.
func parseWConf(title string) float64 {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) == 2 && fields[0] == "x_wconf" {
			conf, _ := strconv.ParseFloat(fields[1], 64)
			return conf
		}
	}
	return 0
}
