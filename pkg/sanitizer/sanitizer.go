package sanitizer

import (
	"regexp"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
	reMultiHyphen = regexp.MustCompile(`-+`)
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseHyphens(s string) string {
	s = reMultiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Slugify turns a title or user supplied slug into its canonical URL form.
func Slugify(input string) string {
	p := Pipeline{
		unidecode.Unidecode,
		trimAndLower,
		func(s string) string { return reNonSlug.ReplaceAllString(s, "-") },
		collapseHyphens,
	}
	return p.Apply(input)
}
