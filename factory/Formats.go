package factory

import (
	"fmt"
	"strings"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

/***************************************
 * Format
 ***************************************/

// Format maps a factor kind of a domain to a file extension, a format and a language.
type Format struct {
	Kind      string `json:"kind"`
	Extension string `json:"extension"`
	Format    string `json:"format"`
	Language  string `json:"language"`
}

func (x Format) String() string {
	return strings.Join([]string{x.Kind, x.Extension, x.Format, x.Language}, " ")
}

// ParseFormat reads the four space separated fields printed by Format.String().
func ParseFormat(in string) (Format, error) {
	fields := strings.Fields(in)
	if len(fields) != 4 {
		return Format{}, fmt.Errorf("invalid format %q: expected 4 fields, got %d", in, len(fields))
	}
	return Format{
		Kind:      fields[0],
		Extension: fields[1],
		Format:    fields[2],
		Language:  fields[3],
	}, nil
}

/***************************************
 * Formats
 ***************************************/

// Formats maps a factor domain uri to its formats, in declaration order.
type Formats map[string][]Format

func (x Formats) Domains() []string {
	return base.SortedKeys(x)
}

// FindKind returns the first format of domain declared for kind.
func (x Formats) FindKind(domain, kind string) (Format, bool) {
	for _, it := range x[domain] {
		if it.Kind == kind {
			return it, true
		}
	}
	return Format{}, false
}

// FindExtension returns the first format of domain using ext, with or without its leading dot.
func (x Formats) FindExtension(domain, ext string) (Format, bool) {
	ext = strings.TrimPrefix(ext, ".")
	for _, it := range x[domain] {
		if it.Extension == ext {
			return it, true
		}
	}
	return Format{}, false
}

// Extension returns the file extension of a sole of type t.
func (x Formats) Extension(t FactorType) (string, error) {
	if it, ok := x.FindKind(t.Domain(), t.Name); ok {
		return it.Extension, nil
	}
	return "", fmt.Errorf("no format declared for %q", t)
}

func DefaultFormats() Formats {
	must := func(in ...string) (result []Format) {
		result = make([]Format, len(in))
		for i, it := range in {
			var err error
			result[i], err = ParseFormat(it)
			base.LogPanicIfFailed(LogFactory, err)
		}
		return
	}
	return Formats{
		FactorTypePrefix + "system": must(
			"elements cc 2014 c++",
			"elements c 2011 c",
			"void h header c",
			"references sr lines text",
		),
		FactorTypePrefix + "python": must(
			"module py psf-v3 python",
			"interface pyi psf-v3 python",
		),
		FactorTypePrefix + "meta": must(
			"references fr lines text",
		),
	}
}
