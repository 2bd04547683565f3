package pptx

import "github.com/beevik/etree"

// Table is an a:tbl element inside a graphic frame.
type Table struct {
	slide *Slide
	el    *etree.Element
}

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row {
	elems := childrenOf(t.el, nsA, "tr")
	rows := make([]*Row, 0, len(elems))
	for _, el := range elems {
		rows = append(rows, &Row{slide: t.slide, el: el})
	}
	return rows
}

// Row is an a:tr element.
type Row struct {
	slide *Slide
	el    *etree.Element
}

// Cells returns the row's cells, including cells covered by a merge.
func (r *Row) Cells() []*Cell {
	elems := childrenOf(r.el, nsA, "tc")
	cells := make([]*Cell, 0, len(elems))
	for _, el := range elems {
		cells = append(cells, &Cell{slide: r.slide, el: el})
	}
	return cells
}

// Cell is an a:tc element.
type Cell struct {
	slide *Slide
	el    *etree.Element
}

// Text returns the cell text, paragraphs separated by "\n".
func (c *Cell) Text() string {
	body := firstChild(c.el, nsA, "txBody")
	if body == nil {
		return ""
	}
	return (&TextFrame{slide: c.slide, el: body}).Text()
}

// TextFrame returns the cell's text body, creating an empty one if needed.
func (c *Cell) TextFrame() *TextFrame {
	body := firstChild(c.el, nsA, "txBody")
	if body == nil {
		body = c.slide.newA("txBody")
		body.CreateElement(qualify(c.slide.a, "bodyPr"))
		body.CreateElement(qualify(c.slide.a, "lstStyle"))
		body.CreateElement(qualify(c.slide.a, "p"))
		c.el.InsertChildAt(0, body)
		c.slide.touch()
	}
	return &TextFrame{slide: c.slide, el: body}
}

// SetText replaces the cell text. See TextFrame.SetText.
func (c *Cell) SetText(text string) {
	c.TextFrame().SetText(text)
}

// Merged reports whether the cell is covered by a horizontal or vertical merge.
func (c *Cell) Merged() bool {
	return truthyAttr(c.el.SelectAttrValue("hMerge", "")) || truthyAttr(c.el.SelectAttrValue("vMerge", ""))
}
