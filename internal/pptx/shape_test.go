package pptx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onepager/onepager/internal/pptx/pptxtest"
)

func firstSlide(t *testing.T, body string) (*Presentation, *Slide) {
	t.Helper()
	p, err := Open(pptxtest.Build(t, body))
	require.NoError(t, err)
	s, err := p.Slide(0)
	require.NoError(t, err)
	return p, s
}

func slideXML(t *testing.T, p *Presentation) string {
	t.Helper()
	out, err := p.Save()
	require.NoError(t, err)
	return pptxtest.ReadPart(t, out, "ppt/slides/slide1.xml")
}

func TestShapeClassification(t *testing.T) {
	_, s := firstSlide(t,
		pptxtest.TextBox(2, "Label", pptxtest.In(1, 1, 2, 0.3), "Cash")+
			pptxtest.Rect(3, "Dot", pptxtest.In(1, 1.2, 0.25, 0.25), "FFFFFF")+
			pptxtest.Table(4, "Grid", pptxtest.In(0, 3, 4, 1), []string{"a", "b"})+
			pptxtest.Picture(5, "Logo", pptxtest.In(8, 0, 1, 1)))

	shapes := s.Shapes()
	require.Len(t, shapes, 4)

	label, dot, grid, logo := shapes[0], shapes[1], shapes[2], shapes[3]
	assert.Equal(t, KindShape, label.Kind())
	assert.Equal(t, "Label", label.Name())
	assert.Equal(t, "2", label.ID())
	assert.True(t, label.HasTextFrame())
	assert.True(t, label.IsTextBox())
	assert.False(t, label.IsAutoShape())
	assert.Equal(t, "Cash", label.Text())

	assert.True(t, dot.IsAutoShape())
	assert.False(t, dot.HasTable())
	box, ok := dot.Box()
	require.True(t, ok)
	assert.Equal(t, Box{Left: Inches(1), Top: Inches(1.2), Width: Inches(0.25), Height: Inches(0.25)}, box)

	assert.Equal(t, KindGraphicFrame, grid.Kind())
	assert.False(t, grid.HasTextFrame())
	assert.Nil(t, grid.TextFrame())
	assert.True(t, grid.HasTable())
	gridBox, ok := grid.Box()
	require.True(t, ok)
	assert.Equal(t, Inches(3), gridBox.Top)

	assert.Equal(t, KindPicture, logo.Kind())
	assert.False(t, logo.IsAutoShape())
	assert.Nil(t, logo.Table())
	assert.Empty(t, logo.Text())
}

func TestPlaceholderIsNotAutoShape(t *testing.T) {
	_, s := firstSlide(t, `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>`+
		`<p:spPr><a:prstGeom prst="rect"/></p:spPr></p:sp>`)
	sh := s.Shapes()[0]
	assert.True(t, sh.IsPlaceholder())
	assert.False(t, sh.IsAutoShape())
	_, ok := sh.Box()
	assert.False(t, ok)
}

func TestSetSolidFillReplacesOtherFills(t *testing.T) {
	p, s := firstSlide(t, `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Oval"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="10" cy="10"/></a:xfrm><a:prstGeom prst="ellipse"/>`+
		`<a:gradFill><a:gsLst/></a:gradFill><a:ln w="100"/></p:spPr></p:sp>`)
	sh := s.Shapes()[0]
	_, ok := sh.SolidFill()
	require.False(t, ok)

	require.NoError(t, sh.SetSolidFill(RGB{R: 255, G: 192}))
	c, ok := sh.SolidFill()
	require.True(t, ok)
	assert.Equal(t, "FFC000", c.Hex())

	xml := slideXML(t, p)
	assert.NotContains(t, xml, "gradFill")
	assert.Contains(t, xml, `<a:prstGeom prst="ellipse"/><a:solidFill><a:srgbClr val="FFC000"/></a:solidFill><a:ln w="100"/>`)
}

func TestSetSolidFillIsIdempotent(t *testing.T) {
	p, s := firstSlide(t, pptxtest.Rect(2, "Dot", pptxtest.In(0, 0, 0.2, 0.2), "FFFFFF"))
	sh := s.Shapes()[0]
	require.NoError(t, sh.SetSolidFill(RGB{R: 77, G: 191, B: 175}))
	require.NoError(t, sh.SetSolidFill(RGB{R: 77, G: 191, B: 175}))

	xml := slideXML(t, p)
	assert.Equal(t, 1, strings.Count(xml, "<a:solidFill>"))
	assert.Contains(t, xml, `<a:solidFill><a:srgbClr val="4DBFAF"/></a:solidFill>`)
}

func TestSetSolidFillWithoutShapeProperties(t *testing.T) {
	_, s := firstSlide(t, `<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="2" name="Line"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr></p:cxnSp>`)
	err := s.Shapes()[0].SetSolidFill(RGB{})
	require.ErrorIs(t, err, ErrNoShapeProperties)
	assert.False(t, s.Modified())
}

func TestGroupMembersAreNotExpanded(t *testing.T) {
	_, s := firstSlide(t, `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="9" name="Group"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
		`<p:grpSpPr><a:xfrm><a:off x="5" y="6"/><a:ext cx="7" cy="8"/></a:xfrm></p:grpSpPr>`+
		pptxtest.Rect(10, "Inner", pptxtest.In(0, 0, 0.1, 0.1), "FFFFFF")+`</p:grpSp>`)
	shapes := s.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, KindGroup, shapes[0].Kind())
	box, ok := shapes[0].Box()
	require.True(t, ok)
	assert.Equal(t, Box{Left: 5, Top: 6, Width: 7, Height: 8}, box)
}
