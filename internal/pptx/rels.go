package pptx

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

const (
	relTypeOfficeDocument = "/officeDocument"
	relTypeSlide          = "/slide"
)

// relationship is one entry of a .rels part.
type relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

func (r relationship) external() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// parseRels parses a relationships part.
func parseRels(data []byte) ([]relationship, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	var rels []relationship
	for _, el := range root.ChildElements() {
		if el.Tag != "Relationship" {
			continue
		}
		rels = append(rels, relationship{
			ID:         el.SelectAttrValue("Id", ""),
			Type:       el.SelectAttrValue("Type", ""),
			Target:     el.SelectAttrValue("Target", ""),
			TargetMode: el.SelectAttrValue("TargetMode", ""),
		})
	}
	return rels, nil
}

// relsPartFor returns the relationships part name for a source part.
// The package itself is addressed with an empty source.
func relsPartFor(source string) string {
	dir, base := path.Split(source)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget resolves a relationship target against its source part.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(source), target)
}
