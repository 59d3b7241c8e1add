package hocr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
 <head>
  <title></title>
  <meta name='ocr-system' content='tesseract 5.3.0' />
 </head>
 <body>
  <div class='ocr_page' id='page_1' title='image "page.png"; bbox 0 0 640 480; ppageno 0'>
   <div class='ocr_carea' id='block_1_1' title="bbox 36 92 618 190">
    <p class='ocr_par' id='par_1_1' lang='eng' title="bbox 36 92 618 190">
     <span class='ocr_line' id='line_1_1' title="bbox 36 92 618 130; baseline 0 -6">
      <span class='ocrx_word' id='word_1_1' title='bbox 36 92 210 130; x_wconf 96'>Hello</span>
      <span class='ocrx_word' id='word_1_2' title='bbox 220 92 400 130; x_wconf 91'>world</span>
     </span>
     <span class='ocr_line' id='line_1_2' title="bbox 36 150 618 190">
      <span class='ocrx_word' id='word_1_3' title='bbox 36 150 180 190; x_wconf 88'>again</span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleHOCR))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	page := doc.Pages[0]
	if page.BBox != (BBox{0, 0, 640, 480}) {
		t.Errorf("unexpected page bbox: %+v", page.BBox)
	}
	if len(page.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(page.Lines))
	}

	first := page.Lines[0]
	if got := first.Text(); got != "Hello world" {
		t.Errorf("expected line text %q, got %q", "Hello world", got)
	}
	if first.Words[0].Confidence != 96 {
		t.Errorf("expected confidence 96, got %f", first.Words[0].Confidence)
	}
	if first.Words[0].BBox != (BBox{36, 92, 210, 130}) {
		t.Errorf("unexpected word bbox: %+v", first.Words[0].BBox)
	}
}

func TestWordCountAndText(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleHOCR))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got := doc.WordCount(); got != 3 {
		t.Errorf("expected 3 words, got %d", got)
	}
	if got := doc.Text(); got != "Hello world\nagain" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.hocr")
	if err := os.WriteFile(path, []byte(sampleHOCR), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.WordCount() != 3 {
		t.Errorf("expected 3 words, got %d", doc.WordCount())
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.hocr")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Pages) != 0 {
		t.Errorf("expected no pages, got %d", len(doc.Pages))
	}
	if doc.WordCount() != 0 {
		t.Errorf("expected 0 words, got %d", doc.WordCount())
	}
}

func TestBBoxDimensions(t *testing.T) {
	b := BBox{X0: 10, Y0: 20, X1: 110, Y1: 70}
	if b.Width() != 100 {
		t.Errorf("expected width 100, got %d", b.Width())
	}
	if b.Height() != 50 {
		t.Errorf("expected height 50, got %d", b.Height())
	}
}
