package onepager

import (
	"fmt"
	"strings"

	"github.com/onepager/onepager/internal/pptx"
)

const (
	commentaryHeading  = "Company update"
	headingFontSize    = 8
	bodyFontSize       = 7
	bodySpaceBeforePts = 6
)

var commentaryMarkers = []string{"## Company Update", "## Company update"}

// UpdateCompanyUpdate rewrites the company update box with a bold heading
// and the supplied commentary. It reports whether the box was found.
func UpdateCompanyUpdate(shapes []*pptx.Shape, text Value) (bool, error) {
	if text.Empty() {
		return false, nil
	}
	body, ok := text.Str()
	if !ok {
		return false, fmt.Errorf("onepager: company update must be a string, got %T", text.Raw())
	}

	tf := commentaryFrame(shapes)
	if tf == nil {
		return false, nil
	}
	for _, marker := range commentaryMarkers {
		body = strings.ReplaceAll(body, marker, "")
	}
	body = strings.TrimSpace(body)

	var heading *pptx.Paragraph
	if paragraphs := tf.Paragraphs(); len(paragraphs) > 0 {
		heading = paragraphs[0]
		for _, p := range paragraphs[1:] {
			tf.RemoveParagraph(p)
		}
	} else {
		heading = tf.AddParagraph()
	}
	heading.SetText(commentaryHeading)
	heading.SetBold(true)
	heading.SetFontSize(headingFontSize)

	content := tf.AddParagraph()
	content.SetText(body)
	content.SetFontSize(bodyFontSize)
	content.SetSpaceBefore(bodySpaceBeforePts)
	return true, nil
}

func commentaryFrame(shapes []*pptx.Shape) *pptx.TextFrame {
	for _, sh := range shapes {
		if !sh.HasTextFrame() {
			continue
		}
		if containsAny(lower(sh.Text()), "company update", "company commentary") {
			return sh.TextFrame()
		}
	}
	return nil
}
