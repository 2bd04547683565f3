package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onepager/onepager/internal/pptx/pptxtest"
)

func sampleDeck(t *testing.T) []byte {
	t.Helper()
	return pptxtest.Build(t,
		pptxtest.TextBox(2, "Title", pptxtest.In(0.5, 0.3, 6, 0.5), "Portfolio one-pager", "Q4 2024")+
			pptxtest.Rect(3, "Status", pptxtest.In(1, 1, 0.3, 0.3), "FFFFFF")+
			pptxtest.Table(4, "Summary", pptxtest.In(0.5, 2, 4, 2),
				[]string{"Label", "Value"},
				[]string{"Cash", ""},
			)+
			pptxtest.Picture(5, "Logo", pptxtest.In(7, 0.2, 1, 1)),
		pptxtest.TextBox(2, "Appendix", pptxtest.In(0.5, 0.3, 6, 0.5), "Appendix"),
	)
}

func TestOpenListsSlidesInOrder(t *testing.T) {
	p, err := Open(sampleDeck(t))
	require.NoError(t, err)
	require.Equal(t, 2, p.SlideCount())

	first, err := p.Slide(0)
	require.NoError(t, err)
	assert.Equal(t, "ppt/slides/slide1.xml", first.Part())

	second, err := p.Slide(1)
	require.NoError(t, err)
	assert.Equal(t, "ppt/slides/slide2.xml", second.Part())

	_, err = p.Slide(2)
	require.ErrorIs(t, err, ErrSlideIndex)
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := Open([]byte("not a zip archive"))
	require.ErrorIs(t, err, ErrInvalidPackage)
}

func TestOpenMissingSlidePart(t *testing.T) {
	data := sampleDeck(t)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range zr.File {
		if f.Name == "ppt/_rels/presentation.xml.rels" {
			w, err := zw.Create(f.Name)
			require.NoError(t, err)
			_, err = w.Write([]byte(`<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`))
			require.NoError(t, err)
			continue
		}
		require.NoError(t, zw.Copy(f))
	}
	require.NoError(t, zw.Close())

	_, err = Open(buf.Bytes())
	require.ErrorIs(t, err, ErrPartNotFound)
}

func TestOpenEmptyDeck(t *testing.T) {
	p, err := Open(pptxtest.Build(t))
	require.NoError(t, err)
	assert.Zero(t, p.SlideCount())
}

func TestSaveUntouchedIsByteIdentical(t *testing.T) {
	data := sampleDeck(t)
	p, err := Open(data)
	require.NoError(t, err)
	slide, err := p.Slide(0)
	require.NoError(t, err)
	require.NotEmpty(t, slide.Shapes())

	out, err := p.Save()
	require.NoError(t, err)
	if diff := cmp.Diff(pptxtest.Parts(t, data), pptxtest.Parts(t, out)); diff != "" {
		t.Fatalf("parts changed (-want +got):\n%s", diff)
	}
}

func TestSaveRewritesOnlyModifiedSlide(t *testing.T) {
	data := sampleDeck(t)
	p, err := Open(data)
	require.NoError(t, err)
	slide, err := p.Slide(0)
	require.NoError(t, err)
	require.NoError(t, slide.Shapes()[1].SetSolidFill(RGB{R: 0xC0}))
	require.True(t, slide.Modified())

	out, err := p.Save()
	require.NoError(t, err)

	before := pptxtest.Parts(t, data)
	after := pptxtest.Parts(t, out)
	require.Len(t, after, len(before))
	for name, body := range before {
		if name == "ppt/slides/slide1.xml" {
			assert.NotEqual(t, body, after[name])
			continue
		}
		assert.Equal(t, body, after[name], name)
	}
	assert.Contains(t, after["ppt/slides/slide1.xml"], `<a:srgbClr val="C00000"/>`)

	reopened, err := Open(out)
	require.NoError(t, err)
	s, err := reopened.Slide(0)
	require.NoError(t, err)
	fill, ok := s.Shapes()[1].SolidFill()
	require.True(t, ok)
	assert.Equal(t, RGB{R: 0xC0}, fill)
}

func TestPartErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := error(&PartError{Part: "ppt/slides/slide1.xml", Op: "parse", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.HasPrefix(err.Error(), "pptx: parse ppt/slides/slide1.xml"))
}

func TestResolveTarget(t *testing.T) {
	cases := []struct {
		source, target, want string
	}{
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
		{"ppt/presentation.xml", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"ppt/slides/slide1.xml", "../media/image1.png", "ppt/media/image1.png"},
		{"ppt/presentation.xml", "/ppt/slides/slide9.xml", "ppt/slides/slide9.xml"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, resolveTarget(tc.source, tc.target), tc.target)
	}
	assert.Equal(t, "_rels/.rels", relsPartFor(""))
	assert.Equal(t, "ppt/_rels/presentation.xml.rels", relsPartFor("ppt/presentation.xml"))
}

func TestUnits(t *testing.T) {
	assert.Equal(t, EMU(457200), Inches(0.5))
	assert.Equal(t, EMU(1371600), Inches(1.5))
	assert.Equal(t, EMU(101600), Points(8))
	assert.InDelta(t, 0.2, Inches(0.2).Inches(), 1e-9)
	assert.Equal(t, 800, centipoints(8))
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("4dbfaf")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 77, G: 191, B: 175}, c)
	assert.Equal(t, "4DBFAF", c.Hex())

	_, err = ParseRGB("12345")
	require.Error(t, err)
	_, err = ParseRGB("GGGGGG")
	require.Error(t, err)
}
