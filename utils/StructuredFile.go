package utils

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const STRUCTUREDFILE_DEFAULT_TAB = "\t"

type FileSite struct {
	Line   int
	Column int
}

func (si *FileSite) LineBreak() {
	si.Line++
	si.Column = 1
}

// StructuredFile prints indented text, tracking the current column so output can be aligned.
// The first write error is kept and every later write is skipped.
type StructuredFile struct {
	indent string
	tab    string
	minify bool
	site   FileSite
	writer io.Writer
	err    error
}

func NewStructuredFile(writer io.Writer, tab string, minify bool) *StructuredFile {
	return &StructuredFile{
		tab:    tab,
		minify: minify,
		site:   FileSite{Line: 1, Column: 1},
		writer: writer,
	}
}

func (sf *StructuredFile) Minify() bool { return sf.minify }
func (sf *StructuredFile) Err() error   { return sf.err }

func (sf *StructuredFile) write(txt string) {
	if sf.err == nil {
		_, sf.err = io.WriteString(sf.writer, txt)
	}
}

func (sf *StructuredFile) indentIFN() {
	if sf.site.Column == 1 && len(sf.indent) > 0 {
		sf.site.Column += len(sf.indent)
		sf.write(sf.indent)
	}
}
func (sf *StructuredFile) BeginIndent() {
	sf.indent += sf.tab
}
func (sf *StructuredFile) EndIndent() {
	sf.indent = sf.indent[:len(sf.indent)-len(sf.tab)]
}
func (sf *StructuredFile) ScopeIndent(infix func()) {
	if infix != nil {
		sf.LineBreak()
		sf.BeginIndent()
		infix()
		sf.LineBreak()
		sf.EndIndent()
	}
}

func (sf *StructuredFile) Print(format string, args ...interface{}) {
	sf.indentIFN()
	txt := format
	if len(args) > 0 {
		txt = fmt.Sprintf(format, args...)
	}
	sf.site.Column += ansiEscapedLen(txt)
	sf.write(txt)
}
func (sf *StructuredFile) Println(format string, args ...interface{}) {
	sf.Print(format, args...)
	sf.site.LineBreak()
	sf.write("\n")
}
func (sf *StructuredFile) LineBreak() {
	if sf.site.Column > 1 {
		sf.site.LineBreak()
		sf.write("\n")
	}
}
func (sf *StructuredFile) Align(column int) {
	sf.Pad(column, " ")
}
func (sf *StructuredFile) Pad(column int, in string) {
	if sf.site.Column < column {
		runes := []rune(in)
		sb := strings.Builder{}
		for i := sf.site.Column; i < column; i++ {
			sb.WriteRune(runes[i%len(runes)])
		}
		sf.write(sb.String())
		sf.site.Column = column
	}
}

// ansiEscapedLen counts the printable runes of txt, skipping ansi escape sequences.
func ansiEscapedLen(txt string) (n int) {
	escaped := false
	for len(txt) > 0 {
		r, size := utf8.DecodeRuneInString(txt)
		txt = txt[size:]
		switch {
		case r == '\033':
			escaped = true
		case escaped:
			if r == 'm' {
				escaped = false
			}
		default:
			n++
		}
	}
	return
}
