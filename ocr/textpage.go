package ocr

import (
	"strings"

	"github.com/wudi/docview/area"
	"github.com/wudi/docview/page"
)

// TextPageFromResult converts recognized words into a text page. Word
// bounds are normalized against the rendered image dimensions; words
// with empty text or degenerate bounds are dropped.
func TextPageFromResult(res Result, imageWidth, imageHeight int) *page.TextPage {
	if imageWidth <= 0 || imageHeight <= 0 {
		return page.NewTextPage(nil)
	}
	w := float64(imageWidth)
	h := float64(imageHeight)
	var runs []page.TextRun
	for _, word := range res.Words {
		text := strings.TrimSpace(word.Text)
		if text == "" || word.Bounds.IsEmpty() {
			continue
		}
		runs = append(runs, page.TextRun{
			Text: text,
			Area: area.NormalizedRect{
				Left:   word.Bounds.X / w,
				Top:    word.Bounds.Y / h,
				Right:  (word.Bounds.X + word.Bounds.Width) / w,
				Bottom: (word.Bounds.Y + word.Bounds.Height) / h,
			},
		})
	}
	return page.NewTextPage(runs)
}
