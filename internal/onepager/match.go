package onepager

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/onepager/onepager/internal/pptx"
)

// Casers are stateful, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// normalize is the form every label comparison uses: trimmed and lower-cased.
func normalize(s string) string {
	return lower(strings.TrimSpace(s))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func tables(shapes []*pptx.Shape) []*pptx.Table {
	var out []*pptx.Table
	for _, sh := range shapes {
		if t := sh.Table(); t != nil {
			out = append(out, t)
		}
	}
	return out
}
