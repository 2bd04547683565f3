package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// TextFrame is a txBody element of a shape or table cell.
type TextFrame struct {
	slide *Slide
	el    *etree.Element
}

// Paragraphs returns the frame's paragraphs in order.
func (tf *TextFrame) Paragraphs() []*Paragraph {
	elems := childrenOf(tf.el, nsA, "p")
	out := make([]*Paragraph, 0, len(elems))
	for _, el := range elems {
		out = append(out, &Paragraph{slide: tf.slide, el: el})
	}
	return out
}

// Text returns the frame text with paragraphs separated by "\n".
func (tf *TextFrame) Text() string {
	paragraphs := tf.Paragraphs()
	parts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// SetText replaces all paragraphs with text, one paragraph per "\n"-separated
// line. The first paragraph's properties and the character properties of its
// first run are reused for the new paragraphs so the template's styling
// survives the rewrite.
func (tf *TextFrame) SetText(text string) {
	style := tf.firstParagraphStyle()
	for _, p := range childrenOf(tf.el, nsA, "p") {
		tf.el.RemoveChild(p)
	}
	for _, line := range splitLines(text) {
		p := &Paragraph{slide: tf.slide, el: tf.el.CreateElement(qualify(tf.slide.a, "p"))}
		if style.pPr != nil {
			p.el.AddChild(style.pPr.Copy())
		}
		p.appendText(line, style.rPr)
		if style.endParaRPr != nil {
			p.el.AddChild(style.endParaRPr.Copy())
		}
	}
	tf.slide.touch()
}

// AddParagraph appends an empty paragraph to the frame.
func (tf *TextFrame) AddParagraph() *Paragraph {
	el := tf.el.CreateElement(qualify(tf.slide.a, "p"))
	tf.slide.touch()
	return &Paragraph{slide: tf.slide, el: el}
}

// RemoveParagraph deletes p from the frame.
func (tf *TextFrame) RemoveParagraph(p *Paragraph) {
	if p == nil || p.el.Parent() != tf.el {
		return
	}
	tf.el.RemoveChild(p.el)
	tf.slide.touch()
}

type paragraphStyle struct {
	pPr        *etree.Element
	rPr        *etree.Element
	endParaRPr *etree.Element
}

func (tf *TextFrame) firstParagraphStyle() paragraphStyle {
	var style paragraphStyle
	p := firstChild(tf.el, nsA, "p")
	if p == nil {
		return style
	}
	if pPr := firstChild(p, nsA, "pPr"); pPr != nil {
		style.pPr = pPr.Copy()
	}
	if end := firstChild(p, nsA, "endParaRPr"); end != nil {
		style.endParaRPr = end.Copy()
	}
	if rPr := descend(p, nsA, "r", "rPr"); rPr != nil {
		style.rPr = rPr.Copy()
	} else if style.endParaRPr != nil {
		style.rPr = style.endParaRPr.Copy()
		style.rPr.Tag = "rPr"
	}
	return style
}

// Paragraph is an a:p element.
type Paragraph struct {
	slide *Slide
	el    *etree.Element
}

// Text returns the paragraph text. Line breaks are reported as "\v".
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, c := range p.el.ChildElements() {
		if c.NamespaceURI() != nsA {
			continue
		}
		switch c.Tag {
		case "r", "fld":
			if t := firstChild(c, nsA, "t"); t != nil {
				b.WriteString(t.Text())
			}
		case "br":
			b.WriteString("\v")
		}
	}
	return b.String()
}

// Clear removes all runs, fields and breaks. Paragraph properties stay.
func (p *Paragraph) Clear() {
	for _, c := range p.content() {
		p.el.RemoveChild(c)
	}
	p.slide.touch()
}

// SetText clears the paragraph and writes text as plain runs. Both "\n" and
// "\v" become line breaks inside the paragraph.
func (p *Paragraph) SetText(text string) {
	p.Clear()
	text = strings.ReplaceAll(normalizeNewlines(text), "\n", "\v")
	p.appendText(text, nil)
	p.slide.touch()
}

// SetBold sets the bold flag on every run and break of the paragraph.
func (p *Paragraph) SetBold(bold bool) {
	v := "0"
	if bold {
		v = "1"
	}
	for _, c := range p.content() {
		if c.Tag == "fld" {
			continue
		}
		p.runProperties(c).CreateAttr("b", v)
	}
	p.slide.touch()
}

// SetFontSize sets the size in points on every run and break of the paragraph.
func (p *Paragraph) SetFontSize(pt float64) {
	v := strconv.Itoa(centipoints(pt))
	for _, c := range p.content() {
		if c.Tag == "fld" {
			continue
		}
		p.runProperties(c).CreateAttr("sz", v)
	}
	p.slide.touch()
}

// SetSpaceBefore sets the spacing above the paragraph in points.
func (p *Paragraph) SetSpaceBefore(pt float64) {
	pPr := p.properties()
	if old := firstChild(pPr, nsA, "spcBef"); old != nil {
		pPr.RemoveChild(old)
	}
	spc := p.slide.newA("spcBef")
	pts := spc.CreateElement(qualify(p.slide.a, "spcPts"))
	pts.CreateAttr("val", strconv.Itoa(centipoints(pt)))
	pos := 0
	if ln := firstChild(pPr, nsA, "lnSpc"); ln != nil {
		pos = ln.Index() + 1
	}
	pPr.InsertChildAt(pos, spc)
	p.slide.touch()
}

func (p *Paragraph) content() []*etree.Element {
	var out []*etree.Element
	for _, c := range p.el.ChildElements() {
		if c.NamespaceURI() != nsA {
			continue
		}
		switch c.Tag {
		case "r", "br", "fld":
			out = append(out, c)
		}
	}
	return out
}

// appendText adds runs for text, turning "\v" into a:br. rPr, when set, is
// copied into every new run and break.
func (p *Paragraph) appendText(text string, rPr *etree.Element) {
	for i, seg := range strings.Split(text, "\v") {
		if i > 0 {
			br := p.slide.newA("br")
			if rPr != nil {
				br.AddChild(rPr.Copy())
			}
			p.insertContent(br)
		}
		if seg == "" {
			continue
		}
		r := p.slide.newA("r")
		if rPr != nil {
			r.AddChild(rPr.Copy())
		}
		t := r.CreateElement(qualify(p.slide.a, "t"))
		t.SetText(sanitizeText(seg))
		p.insertContent(r)
	}
}

// insertContent places el before endParaRPr so the paragraph stays schema-valid.
func (p *Paragraph) insertContent(el *etree.Element) {
	if end := firstChild(p.el, nsA, "endParaRPr"); end != nil {
		p.el.InsertChildAt(end.Index(), el)
		return
	}
	p.el.AddChild(el)
}

func (p *Paragraph) properties() *etree.Element {
	if pPr := firstChild(p.el, nsA, "pPr"); pPr != nil {
		return pPr
	}
	pPr := p.slide.newA("pPr")
	p.el.InsertChildAt(0, pPr)
	return pPr
}

func (p *Paragraph) runProperties(run *etree.Element) *etree.Element {
	if rPr := firstChild(run, nsA, "rPr"); rPr != nil {
		return rPr
	}
	rPr := p.slide.newA("rPr")
	run.InsertChildAt(0, rPr)
	return rPr
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(text string) []string {
	return strings.Split(normalizeNewlines(text), "\n")
}
