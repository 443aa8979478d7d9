package base

import (
	"bytes"
	"slices"
	"testing"
)

func TestUnsafeBytesFromStringAndUnsafeStringFromBytes(t *testing.T) {
	s := "hello"
	b := UnsafeBytesFromString(s)
	if string(b) != s {
		t.Errorf("UnsafeBytesFromString failed: got %q, want %q", string(b), s)
	}
	s2 := UnsafeStringFromBytes(b)
	if s2 != s {
		t.Errorf("UnsafeStringFromBytes failed: got %q, want %q", s2, s)
	}
}

func TestUnsafeStringFromBuffer(t *testing.T) {
	buf := bytes.NewBufferString("buffer")
	s := UnsafeStringFromBuffer(buf)
	if s != "buffer" {
		t.Errorf("UnsafeStringFromBuffer failed: got %q", s)
	}
}

func TestMakeStringer(t *testing.T) {
	s := MakeStringer(func() string { return "lambda" })
	if s.String() != "lambda" {
		t.Errorf("MakeStringer failed: got %q", s.String())
	}
}

type testStringer struct{ v string }

func (t testStringer) String() string { return t.v }

func TestJoin(t *testing.T) {
	a := testStringer{"a"}
	b := testStringer{"b"}
	c := testStringer{"c"}
	if joined := Join(",", a, b, c); joined.String() != "a,b,c" {
		t.Errorf("Join failed: got %q", joined.String())
	}
	if empty := Join[testStringer]("-"); empty.String() != "" {
		t.Errorf("Join failed: got %q", empty.String())
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("  first \n\n\tsecond\r\nthird\n")
	if !slices.Equal(lines, []string{"first", "second", "third"}) {
		t.Errorf("SplitLines failed: got %q", lines)
	}
	if lines := SplitLines(""); len(lines) != 0 {
		t.Errorf("SplitLines failed: got %q", lines)
	}
}
