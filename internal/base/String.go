package base

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"
)

/***************************************
 * Avoid allocation for string/[]byte conversions
 ***************************************/

func UnsafeBytesFromString(in string) []byte {
	return unsafe.Slice(unsafe.StringData(in), len(in))
}
func UnsafeStringFromBytes(raw []byte) string {
	// from func (strings.Builder) String() string
	return unsafe.String(unsafe.SliceData(raw), len(raw))
}
func UnsafeStringFromBuffer(buf *bytes.Buffer) string {
	return UnsafeStringFromBytes(buf.Bytes())
}

/***************************************
 * Create fmt.Stringer from a func
 ***************************************/

type lambdaStringer func() string

func (x lambdaStringer) String() string {
	return x()
}
func MakeStringer(fn func() string) fmt.Stringer {
	return lambdaStringer(fn)
}

/***************************************
 * Join fmt.Stringer lazily
 ***************************************/

type jointStringer[T fmt.Stringer] struct {
	it    []T
	delim string
}

func (join jointStringer[T]) String() string {
	sb := strings.Builder{}
	for i, x := range join.it {
		if i > 0 {
			sb.WriteString(join.delim)
		}
		sb.WriteString(x.String())
	}
	return sb.String()
}

func Join[T fmt.Stringer](delim string, it ...T) fmt.Stringer {
	return jointStringer[T]{delim: delim, it: it}
}

/***************************************
 * String helpers
 ***************************************/

// SplitLines returns every trimmed and non-empty line of in.
func SplitLines(in string) (result []string) {
	for _, line := range strings.Split(in, "\n") {
		if line = strings.TrimSpace(line); len(line) > 0 {
			result = append(result, line)
		}
	}
	return
}
