package onepager

import (
	"fmt"
	"sort"

	"github.com/onepager/onepager/internal/pptx"
)

// Size and placement limits for RAG indicator shapes.
var (
	indicatorMaxHeight = pptx.Inches(0.5)
	indicatorMaxWidth  = pptx.Inches(1.5)
	labelTolerance     = pptx.Inches(0.2)
	labelMaxDrop       = pptx.Inches(0.5)
)

// UpdateRAGStatus recolours the RAG indicators on the slide and returns how
// many shapes were recoloured. Categories missing from status are Green.
func UpdateRAGStatus(shapes []*pptx.Shape, status map[string]Value, strategy RAGStrategy) (int, error) {
	if len(status) == 0 {
		return 0, nil
	}
	switch strategy {
	case RAGLabel:
		return ragByLabel(shapes, status)
	case RAGPositional, "":
		return ragByPosition(shapes, status)
	}
	return 0, fmt.Errorf("onepager: unknown RAG strategy %q", strategy)
}

// statusOf returns the status for a category key. Non-string values never
// match a status name.
func statusOf(status map[string]Value, key string) RAG {
	v, ok := status[key]
	if !ok {
		return RAGGreen
	}
	s, _ := v.Str()
	return RAG(s)
}

type indicator struct {
	shape *pptx.Shape
	box   pptx.Box
}

func ragByPosition(shapes []*pptx.Shape, status map[string]Value) (int, error) {
	var found []indicator
	for _, sh := range shapes {
		if !sh.IsAutoShape() {
			continue
		}
		box, ok := sh.Box()
		if !ok || box.Height >= indicatorMaxHeight || box.Width >= indicatorMaxWidth {
			continue
		}
		found = append(found, indicator{shape: sh, box: box})
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].box.Top != found[j].box.Top {
			return found[i].box.Top < found[j].box.Top
		}
		return found[i].box.Left < found[j].box.Left
	})

	updated := 0
	for i, ind := range found {
		if i >= len(Categories) {
			break
		}
		if err := ind.shape.SetSolidFill(statusOf(status, Categories[i].Key).Color()); err != nil {
			return updated, fmt.Errorf("onepager: recolour %q: %w", ind.shape.Name(), err)
		}
		updated++
	}
	return updated, nil
}

func ragByLabel(shapes []*pptx.Shape, status map[string]Value) (int, error) {
	updated := 0
	for _, label := range shapes {
		if !label.HasTextFrame() {
			continue
		}
		category, ok := categoryFor(label.Text())
		if !ok {
			continue
		}
		anchor, ok := label.Box()
		if !ok {
			continue
		}
		target := indicatorBelow(shapes, label, anchor)
		if target == nil {
			continue
		}
		if err := target.SetSolidFill(statusOf(status, category.Key).Color()); err != nil {
			return updated, fmt.Errorf("onepager: recolour %q: %w", target.Name(), err)
		}
		updated++
	}
	return updated, nil
}

func categoryFor(text string) (Category, bool) {
	text = normalize(text)
	for _, c := range Categories {
		if text == lower(c.Label) {
			return c, true
		}
	}
	return Category{}, false
}

// indicatorBelow returns the first auto shape roughly left-aligned with the
// label and starting at most labelMaxDrop below its top.
func indicatorBelow(shapes []*pptx.Shape, label *pptx.Shape, anchor pptx.Box) *pptx.Shape {
	for _, sh := range shapes {
		if sh == label || !sh.IsAutoShape() {
			continue
		}
		box, ok := sh.Box()
		if !ok {
			continue
		}
		dx := box.Left - anchor.Left
		dy := box.Top - anchor.Top
		if dx < 0 {
			dx = -dx
		}
		if dx <= labelTolerance && dy >= 0 && dy <= labelMaxDrop {
			return sh
		}
	}
	return nil
}
