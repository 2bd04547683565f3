package pptx

import (
	"fmt"

	"github.com/beevik/etree"
)

// Slide is a parsed slide part. Mutations through its shapes mark the slide
// modified so that Save re-encodes it.
type Slide struct {
	part     string
	doc      *etree.Document
	tree     *etree.Element
	a        string
	modified bool
}

func parseSlide(part string, data []byte) (*Slide, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &PartError{Part: part, Op: "parse", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &PartError{Part: part, Op: "parse", Err: fmt.Errorf("empty document")}
	}
	tree := descend(root, nsP, "cSld", "spTree")
	if tree == nil {
		return nil, &PartError{Part: part, Op: "parse", Err: fmt.Errorf("no shape tree")}
	}
	return &Slide{
		part: part,
		doc:  doc,
		tree: tree,
		a:    ensurePrefix(root, nsA, "a"),
	}, nil
}

// Part returns the package part name of the slide.
func (s *Slide) Part() string {
	return s.part
}

// Modified reports whether any shape on the slide was changed.
func (s *Slide) Modified() bool {
	return s.modified
}

// Shapes returns the top-level shapes of the slide in document order.
// Members of group shapes are not expanded.
func (s *Slide) Shapes() []*Shape {
	var shapes []*Shape
	for _, el := range s.tree.ChildElements() {
		if el.NamespaceURI() != nsP {
			continue
		}
		switch Kind(el.Tag) {
		case KindShape, KindGroup, KindGraphicFrame, KindConnector, KindPicture, KindContentPart:
			shapes = append(shapes, &Shape{slide: s, el: el})
		}
	}
	return shapes
}

func (s *Slide) touch() {
	s.modified = true
}

// newA creates a detached DrawingML element using the slide's prefix.
func (s *Slide) newA(local string) *etree.Element {
	return etree.NewElement(qualify(s.a, local))
}
