package pptx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Kind is the element name of a top-level shape.
type Kind string

const (
	KindShape        Kind = "sp"
	KindGroup        Kind = "grpSp"
	KindGraphicFrame Kind = "graphicFrame"
	KindConnector    Kind = "cxnSp"
	KindPicture      Kind = "pic"
	KindContentPart  Kind = "contentPart"
)

// Box is a shape's bounding box.
type Box struct {
	Left, Top, Width, Height EMU
}

// Shape is a positioned element on a slide.
type Shape struct {
	slide *Slide
	el    *etree.Element
}

// Kind returns the shape's element kind.
func (sh *Shape) Kind() Kind {
	return Kind(sh.el.Tag)
}

// Name returns the cNvPr name of the shape.
func (sh *Shape) Name() string {
	if c := sh.cNvPr(); c != nil {
		return c.SelectAttrValue("name", "")
	}
	return ""
}

// ID returns the cNvPr id of the shape.
func (sh *Shape) ID() string {
	if c := sh.cNvPr(); c != nil {
		return c.SelectAttrValue("id", "")
	}
	return ""
}

// Box returns the shape's position and size. ok is false when the shape has
// no explicit transform (for example a placeholder inheriting its layout).
func (sh *Shape) Box() (box Box, ok bool) {
	var xfrm *etree.Element
	switch sh.Kind() {
	case KindGraphicFrame:
		xfrm = firstChild(sh.el, nsP, "xfrm")
	case KindGroup:
		xfrm = firstChild(firstChild(sh.el, nsP, "grpSpPr"), nsA, "xfrm")
	default:
		xfrm = firstChild(firstChild(sh.el, nsP, "spPr"), nsA, "xfrm")
	}
	off := firstChild(xfrm, nsA, "off")
	ext := firstChild(xfrm, nsA, "ext")
	if off == nil || ext == nil {
		return Box{}, false
	}
	box.Left, ok = emuAttr(off, "x")
	if !ok {
		return Box{}, false
	}
	if box.Top, ok = emuAttr(off, "y"); !ok {
		return Box{}, false
	}
	if box.Width, ok = emuAttr(ext, "cx"); !ok {
		return Box{}, false
	}
	if box.Height, ok = emuAttr(ext, "cy"); !ok {
		return Box{}, false
	}
	return box, true
}

// HasTextFrame reports whether the shape can hold a text frame. Only sp
// elements qualify; tables keep their text in cells.
func (sh *Shape) HasTextFrame() bool {
	return sh.Kind() == KindShape
}

// TextFrame returns the shape's text body, or nil when it has none.
func (sh *Shape) TextFrame() *TextFrame {
	if !sh.HasTextFrame() {
		return nil
	}
	body := firstChild(sh.el, nsP, "txBody")
	if body == nil {
		return nil
	}
	return &TextFrame{slide: sh.slide, el: body}
}

// Text returns the shape's text, paragraphs separated by "\n".
func (sh *Shape) Text() string {
	tf := sh.TextFrame()
	if tf == nil {
		return ""
	}
	return tf.Text()
}

// HasTable reports whether the shape is a graphic frame holding a table.
func (sh *Shape) HasTable() bool {
	return sh.tbl() != nil
}

// Table returns the shape's table, or nil.
func (sh *Shape) Table() *Table {
	tbl := sh.tbl()
	if tbl == nil {
		return nil
	}
	return &Table{slide: sh.slide, el: tbl}
}

// IsPlaceholder reports whether the shape is bound to a layout placeholder.
func (sh *Shape) IsPlaceholder() bool {
	nv := sh.nvProps()
	return firstChild(firstChild(nv, nsP, "nvPr"), nsP, "ph") != nil
}

// IsTextBox reports whether the shape was created as a text box.
func (sh *Shape) IsTextBox() bool {
	if sh.Kind() != KindShape {
		return false
	}
	c := firstChild(sh.nvProps(), nsP, "cNvSpPr")
	return c != nil && truthyAttr(c.SelectAttrValue("txBox", ""))
}

// IsAutoShape reports whether the shape is a preset-geometry auto shape:
// an sp that is neither a placeholder nor a text box.
func (sh *Shape) IsAutoShape() bool {
	if sh.Kind() != KindShape || sh.IsPlaceholder() || sh.IsTextBox() {
		return false
	}
	return firstChild(firstChild(sh.el, nsP, "spPr"), nsA, "prstGeom") != nil
}

var fillTags = map[string]bool{
	"noFill":    true,
	"solidFill": true,
	"gradFill":  true,
	"blipFill":  true,
	"pattFill":  true,
	"grpFill":   true,
}

// SetSolidFill replaces the shape's fill with a solid sRGB fill.
func (sh *Shape) SetSolidFill(c RGB) error {
	spPr := firstChild(sh.el, nsP, "spPr")
	if spPr == nil {
		return ErrNoShapeProperties
	}
	var solid *etree.Element
	for _, child := range spPr.ChildElements() {
		if child.NamespaceURI() != nsA || !fillTags[child.Tag] {
			continue
		}
		if child.Tag == "solidFill" && solid == nil {
			solid = child
			continue
		}
		spPr.RemoveChild(child)
	}
	if solid == nil {
		// the fill choice follows xfrm and the geometry in CT_ShapeProperties
		pos := 0
		for _, child := range spPr.ChildElements() {
			if child.NamespaceURI() != nsA {
				continue
			}
			switch child.Tag {
			case "xfrm", "custGeom", "prstGeom":
				pos = child.Index() + 1
			}
		}
		solid = sh.slide.newA("solidFill")
		spPr.InsertChildAt(pos, solid)
	}
	for _, tok := range append([]etree.Token(nil), solid.Child...) {
		solid.RemoveChild(tok)
	}
	clr := solid.CreateElement(qualify(sh.slide.a, "srgbClr"))
	clr.CreateAttr("val", c.Hex())
	sh.slide.touch()
	return nil
}

// SolidFill returns the explicit solid sRGB fill of the shape, if any.
func (sh *Shape) SolidFill() (RGB, bool) {
	clr := descend(firstChild(sh.el, nsP, "spPr"), nsA, "solidFill", "srgbClr")
	if clr == nil {
		return RGB{}, false
	}
	c, err := ParseRGB(clr.SelectAttrValue("val", ""))
	if err != nil {
		return RGB{}, false
	}
	return c, true
}

func (sh *Shape) tbl() *etree.Element {
	if sh.Kind() != KindGraphicFrame {
		return nil
	}
	data := descend(sh.el, nsA, "graphic", "graphicData")
	if data == nil || data.SelectAttrValue("uri", "") != uriTable {
		return nil
	}
	return firstChild(data, nsA, "tbl")
}

// nvProps returns the non-visual properties element (nvSpPr, nvGrpSpPr, ...).
func (sh *Shape) nvProps() *etree.Element {
	for _, c := range sh.el.ChildElements() {
		if c.NamespaceURI() == nsP && strings.HasPrefix(c.Tag, "nv") {
			return c
		}
	}
	return nil
}

func (sh *Shape) cNvPr() *etree.Element {
	return firstChild(sh.nvProps(), nsP, "cNvPr")
}

func emuAttr(el *etree.Element, key string) (EMU, bool) {
	v, err := strconv.ParseInt(el.SelectAttrValue(key, ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return EMU(v), true
}

func truthyAttr(v string) bool {
	return v == "1" || v == "true"
}
