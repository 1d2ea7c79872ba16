package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// paragraphMarkerSelector matches the open/closed paragraph signs the text API wraps in
// braces inside a marker span.
const paragraphMarkerSelector = "span.mam-spi-pe"

// CleanMarkup strips HTML tags from verse text, keeping inner text. Paragraph
// marker spans collapse to their bare letter, entities are decoded and runs
// of whitespace collapse to one space.
func CleanMarkup(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return collapseWhitespace(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + text + "</body>"))
	if err != nil {
		return collapseWhitespace(text)
	}

	doc.Find(paragraphMarkerSelector).Each(func(_ int, s *goquery.Selection) {
		marker := strings.Trim(strings.TrimSpace(s.Text()), "{}")
		s.ReplaceWithHtml(marker)
	})
	doc.Find("script, style").Remove()

	return collapseWhitespace(doc.Find("body").Text())
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
