// Package pptxtest builds small presentation packages in memory for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
	"testing"
)

const nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const (
	relsNS    = "http://schemas.openxmlformats.org/package/2006/relationships"
	relOffice = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	tableURI  = "http://schemas.openxmlformats.org/drawingml/2006/table"
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

const inch = 914400

// Box positions a shape, in EMU.
type Box struct {
	X, Y, CX, CY int64
}

// In builds a Box from inches.
func In(x, y, cx, cy float64) Box {
	f := func(v float64) int64 { return int64(v * inch) }
	return Box{X: f(x), Y: f(y), CX: f(cx), CY: f(cy)}
}

func (b Box) xfrm(prefix string) string {
	return fmt.Sprintf(`<%[1]s:xfrm><a:off x="%[2]d" y="%[3]d"/><a:ext cx="%[4]d" cy="%[5]d"/></%[1]s:xfrm>`,
		prefix, b.X, b.Y, b.CX, b.CY)
}

// Build returns a presentation package holding one slide per spTree body.
// Each body is the inner XML of p:spTree, typically made from the helpers
// in this package.
func Build(tb testing.TB, slides ...string) []byte {
	tb.Helper()
	files := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypes(len(slides))},
		{"_rels/.rels", xmlHeader + `<Relationships xmlns="` + relsNS + `">` +
			`<Relationship Id="rId1" Type="` + relOffice + `" Target="ppt/presentation.xml"/></Relationships>`},
		{"ppt/presentation.xml", presentation(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRels(len(slides))},
	}
	for i, body := range slides {
		files = append(files, struct{ name, body string }{
			name: fmt.Sprintf("ppt/slides/slide%d.xml", i+1),
			body: Slide(body),
		})
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			tb.Fatalf("create %s: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			tb.Fatalf("write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

// Slide wraps spTree content into a complete slide part.
func Slide(body string) string {
	return xmlHeader + `<p:sld ` + nsDecl + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr/>` + body + `</p:spTree></p:cSld></p:sld>`
}

// ReadPart returns the named part of a package.
func ReadPart(tb testing.TB, data []byte, name string) string {
	tb.Helper()
	parts := Parts(tb, data)
	body, ok := parts[name]
	if !ok {
		tb.Fatalf("part %s not found", name)
	}
	return body
}

// Parts returns every part of a package keyed by name.
func Parts(tb testing.TB, data []byte) map[string]string {
	tb.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		tb.Fatalf("open archive: %v", err)
	}
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			tb.Fatalf("open %s: %v", f.Name, err)
		}
		b := &bytes.Buffer{}
		if _, err := b.ReadFrom(rc); err != nil {
			rc.Close()
			tb.Fatalf("read %s: %v", f.Name, err)
		}
		rc.Close()
		out[f.Name] = b.String()
	}
	return out
}

// TextBox returns a txBox shape holding one paragraph per line.
func TextBox(id int, name string, box Box, lines ...string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>%s</p:sp>`,
		id, esc(name), box.xfrm("a"), txBody("p", lines))
}

// Rect returns a rectangle auto shape with a solid fill.
func Rect(id int, name string, box Box, fill string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`+
		`<a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:ln><a:noFill/></a:ln></p:spPr>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`,
		id, esc(name), box.xfrm("a"), fill)
}

// Table returns a graphic frame holding a table. Each row is a slice of cell
// texts; "\n" inside a cell text starts a new paragraph.
func Table(id int, name string, box Box, rows ...[]string) string {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/>`+
		`<p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`,
		id, esc(name))
	b.WriteString(box.xfrm("p"))
	b.WriteString(`<a:graphic><a:graphicData uri="` + tableURI + `"><a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	for range cols {
		fmt.Fprintf(&b, `<a:gridCol w="%d"/>`, box.CX/int64(max(cols, 1)))
	}
	b.WriteString(`</a:tblGrid>`)
	for _, r := range rows {
		b.WriteString(`<a:tr h="370840">`)
		for _, cell := range r {
			b.WriteString(`<a:tc>` + txBody("a", strings.Split(cell, "\n")) + `<a:tcPr/></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	return b.String()
}

// Picture returns a picture shape without image data.
func Picture(id int, name string, box Box) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill/><p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		id, esc(name), box.xfrm("a"))
}

func txBody(prefix string, lines []string) string {
	var b strings.Builder
	b.WriteString(`<` + prefix + `:txBody><a:bodyPr/><a:lstStyle/>`)
	if len(lines) == 0 {
		lines = []string{""}
	}
	for _, line := range lines {
		b.WriteString(`<a:p>`)
		if line != "" {
			b.WriteString(`<a:r><a:rPr lang="en-US" sz="900"/><a:t>` + esc(line) + `</a:t></a:r>`)
		}
		b.WriteString(`<a:endParaRPr lang="en-US" sz="900"/></a:p>`)
	}
	b.WriteString(`</` + prefix + `:txBody>`)
	return b.String()
}

func contentTypes(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func presentation(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader + `<p:presentation ` + nsDecl + `>`)
	if n > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	b.WriteString(`<p:sldSz cx="9144000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	return b.String()
}

func presentationRels(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader + `<Relationships xmlns="` + relsNS + `">`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+1, relSlide, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func esc(s string) string {
	return html.EscapeString(s)
}
