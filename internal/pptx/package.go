package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

const defaultPresentationPart = "ppt/presentation.xml"

// Presentation is a presentation package held in memory. Slides are parsed
// on first access; parts that are never modified are copied verbatim on Save.
type Presentation struct {
	files  []*zip.File
	part   string
	slides []*slideRef
}

type slideRef struct {
	part  string
	slide *Slide
}

// Open reads a presentation package from data.
func Open(data []byte) (*Presentation, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}
	p := &Presentation{files: zr.File}

	p.part, err = p.officeDocumentPart()
	if err != nil {
		return nil, err
	}
	parts, err := p.slideParts()
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		p.slides = append(p.slides, &slideRef{part: part})
	}
	return p, nil
}

// SlideCount returns the number of slides listed in the presentation.
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

// Slide returns the slide at index i (0-based), parsing it on first use.
func (p *Presentation) Slide(i int) (*Slide, error) {
	if i < 0 || i >= len(p.slides) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSlideIndex, i, len(p.slides))
	}
	ref := p.slides[i]
	if ref.slide != nil {
		return ref.slide, nil
	}
	data, err := p.readPart(ref.part)
	if err != nil {
		return nil, err
	}
	slide, err := parseSlide(ref.part, data)
	if err != nil {
		return nil, err
	}
	ref.slide = slide
	return slide, nil
}

// Save serialises the package. Modified slides are re-encoded; every other
// entry is copied with its original compressed bytes and header.
func (p *Presentation) Save() ([]byte, error) {
	modified := make(map[string][]byte)
	for _, ref := range p.slides {
		if ref.slide == nil || !ref.slide.Modified() {
			continue
		}
		data, err := ref.slide.doc.WriteToBytes()
		if err != nil {
			return nil, &PartError{Part: ref.part, Op: "write", Err: err}
		}
		name := ref.part
		if f := p.lookup(ref.part); f != nil {
			name = f.Name
		}
		modified[name] = data
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range p.files {
		data, ok := modified[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return nil, &PartError{Part: f.Name, Op: "write", Err: err}
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, &PartError{Part: f.Name, Op: "write", Err: err}
		}
		if _, err := w.Write(data); err != nil {
			return nil, &PartError{Part: f.Name, Op: "write", Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pptx: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// officeDocumentPart locates the main presentation part via the package
// relationships, falling back to the conventional location.
func (p *Presentation) officeDocumentPart() (string, error) {
	part := defaultPresentationPart
	if data, err := p.readPart(relsPartFor("")); err == nil {
		rels, err := parseRels(data)
		if err != nil {
			return "", &PartError{Part: relsPartFor(""), Op: "parse", Err: err}
		}
		for _, rel := range rels {
			if strings.HasSuffix(rel.Type, relTypeOfficeDocument) && !rel.external() {
				part = resolveTarget("", rel.Target)
				break
			}
		}
	}
	if p.lookup(part) == nil {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidPackage, part)
	}
	return part, nil
}

// slideParts returns slide part names in presentation order (p:sldIdLst).
func (p *Presentation) slideParts() ([]string, error) {
	data, err := p.readPart(p.part)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &PartError{Part: p.part, Op: "parse", Err: err}
	}
	ids := childrenOf(descend(doc.Root(), nsP, "sldIdLst"), nsP, "sldId")
	if len(ids) == 0 {
		return nil, nil
	}

	relsPart := relsPartFor(p.part)
	relsData, err := p.readPart(relsPart)
	if err != nil {
		return nil, err
	}
	rels, err := parseRels(relsData)
	if err != nil {
		return nil, &PartError{Part: relsPart, Op: "parse", Err: err}
	}
	targets := make(map[string]string, len(rels))
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, relTypeSlide) && !rel.external() {
			targets[rel.ID] = resolveTarget(p.part, rel.Target)
		}
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		rid := relationshipID(id)
		target, ok := targets[rid]
		if !ok {
			return nil, fmt.Errorf("%w: slide relationship %q", ErrPartNotFound, rid)
		}
		parts = append(parts, target)
	}
	return parts, nil
}

func relationshipID(el *etree.Element) string {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key == "id" && a.NamespaceURI() == nsR {
			return a.Value
		}
	}
	return ""
}

func (p *Presentation) lookup(name string) *zip.File {
	for _, f := range p.files {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

func (p *Presentation) readPart(name string) ([]byte, error) {
	f := p.lookup(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &PartError{Part: name, Op: "read", Err: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &PartError{Part: name, Op: "read", Err: err}
	}
	return data, nil
}
