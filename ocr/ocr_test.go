package ocr

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/wudi/docview/page"
)

func TestInputFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	in, err := InputFromImage(img, 3,
		WithLanguages("eng", "deu"),
		WithDPI(300),
		WithTesseractPSM(6),
		WithTesseractWhitelist("0123456789"))
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.PageNumber != 3 || in.DPI != 300 {
		t.Fatalf("input %+v", in)
	}
	if len(in.Languages) != 2 || in.Languages[0] != "eng" {
		t.Fatalf("languages %v", in.Languages)
	}
	if in.Metadata["tessedit_pageseg_mode"] != "6" {
		t.Fatalf("metadata %v", in.Metadata)
	}
	if in.Metadata["tessedit_char_whitelist"] != "0123456789" {
		t.Fatalf("metadata %v", in.Metadata)
	}
	decoded, err := png.Decode(bytes.NewReader(in.Image))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 4 {
		t.Fatalf("image bounds %v", decoded.Bounds())
	}
}

func TestTextPageFromResult(t *testing.T) {
	res := Result{
		PageNumber: 0,
		Words: []Word{
			{Text: "hello", Bounds: Region{X: 0, Y: 0, Width: 100, Height: 20}},
			{Text: "  ", Bounds: Region{X: 100, Y: 0, Width: 50, Height: 20}},
			{Text: "world", Bounds: Region{X: 0, Y: 0, Width: 0, Height: 0}},
			{Text: "again", Bounds: Region{X: 100, Y: 180, Width: 100, Height: 20}},
		},
	}
	tp := TextPageFromResult(res, 200, 200)

	hits := tp.FindText("hello again", page.FromTop, page.CaseInsensitive, nil)
	if hits == nil {
		t.Fatalf("flattened text must join surviving words with spaces")
	}
	if tp.FindText("world", page.FromTop, page.CaseInsensitive, nil) != nil {
		t.Fatalf("degenerate words must be dropped")
	}

	first := tp.FindText("hello", page.FromTop, page.CaseInsensitive, nil)
	if first == nil || first.First().Right != 0.5 {
		t.Fatalf("word bounds must normalize against image size: %+v", first)
	}
}

func TestTextPageFromResultEmptyImage(t *testing.T) {
	tp := TextPageFromResult(Result{Words: []Word{{Text: "x", Bounds: Region{Width: 1, Height: 1}}}}, 0, 0)
	if tp.FindText("x", page.FromTop, page.CaseInsensitive, nil) != nil {
		t.Fatalf("degenerate image must yield an empty text page")
	}
}
