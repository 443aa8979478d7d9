package utils

import (
	"os"
	"strings"
	"testing"
)

func TestFingerprintString(t *testing.T) {
	// sha256("abc")
	const expected = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	fp := BytesFingerprint([]byte("abc"))
	if fp.String() != expected {
		t.Errorf("BytesFingerprint: expected %s, got %s", expected, fp)
	}
	if fp.ShortString() != expected[:16] {
		t.Errorf("ShortString: expected %s, got %s", expected[:16], fp.ShortString())
	}
	if raw, _ := fp.MarshalText(); string(raw) != expected {
		t.Errorf("MarshalText: expected %s, got %s", expected, raw)
	}

	var parsed Fingerprint
	if err := parsed.Set(expected); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if parsed != fp {
		t.Errorf("Set: expected %s, got %s", fp, parsed)
	}
	if err := parsed.Set("abcd"); err == nil {
		t.Errorf("Set: expected an error for a truncated fingerprint")
	}
	if (Fingerprint{}).Valid() || !fp.Valid() {
		t.Errorf("Valid: only the zero fingerprint is invalid")
	}
}

func TestReaderAndFileFingerprint(t *testing.T) {
	content := "/usr/lib\nclang\n"
	fromReader, err := ReaderFingerprint(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReaderFingerprint: %v", err)
	}
	if want := BytesFingerprint([]byte(content)); fromReader != want {
		t.Errorf("ReaderFingerprint: expected %s, got %s", want, fromReader)
	}

	file := MakeDirectory(t.TempDir()).File("libclang-is.txt")
	if err := os.WriteFile(file.String(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := FileFingerprint(file)
	if err != nil {
		t.Fatalf("FileFingerprint: %v", err)
	}
	if fromFile != fromReader {
		t.Errorf("FileFingerprint: expected %s, got %s", fromReader, fromFile)
	}
}

func TestJsonFingerprintIsStable(t *testing.T) {
	a, err := JsonFingerprint(map[string][]string{"b": {"1"}, "a": {"2"}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := JsonFingerprint(map[string][]string{"a": {"2"}, "b": {"1"}})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("JsonFingerprint: map ordering should not change the digest: %s != %s", a, b)
	}

	c, _ := JsonFingerprint(map[string][]string{"a": {"2"}, "b": {"3"}})
	if a == c {
		t.Errorf("JsonFingerprint: different content should give different digests")
	}
}
