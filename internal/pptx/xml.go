package pptx

import (
	"strings"

	"github.com/beevik/etree"
)

// XML namespaces used in PresentationML and DrawingML parts.
const (
	nsP      = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	uriTable = "http://schemas.openxmlformats.org/drawingml/2006/table"
)

func isElem(e *etree.Element, ns, local string) bool {
	return e != nil && e.Tag == local && e.NamespaceURI() == ns
}

func firstChild(e *etree.Element, ns, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if isElem(c, ns, local) {
			return c
		}
	}
	return nil
}

func childrenOf(e *etree.Element, ns, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if isElem(c, ns, local) {
			out = append(out, c)
		}
	}
	return out
}

// descend follows a chain of child elements in the same namespace.
func descend(e *etree.Element, ns string, locals ...string) *etree.Element {
	for _, local := range locals {
		e = firstChild(e, ns, local)
		if e == nil {
			return nil
		}
	}
	return e
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// ensurePrefix returns the prefix bound to ns on root, declaring fallback when
// the namespace is not bound yet.
func ensurePrefix(root *etree.Element, ns, fallback string) string {
	for _, a := range root.Attr {
		if a.Value != ns {
			continue
		}
		if a.Space == "xmlns" {
			return a.Key
		}
		if a.Space == "" && a.Key == "xmlns" {
			return ""
		}
	}
	root.CreateAttr("xmlns:"+fallback, ns)
	return fallback
}

// sanitizeText drops runes that cannot appear in XML 1.0 character data.
func sanitizeText(s string) string {
	if !strings.ContainsFunc(s, invalidXMLRune) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if invalidXMLRune(r) {
			return -1
		}
		return r
	}, s)
}

func invalidXMLRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return true
	}
	return false
}
