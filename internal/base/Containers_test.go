package base

import (
	"slices"
	"testing"
)

func TestIndexOfInts(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	if i, ok := IndexOf(1, items...); !ok || i != 0 {
		t.Errorf("invalid indexof: %v != %v || %v != %v", ok, true, i, 0)
	}
	if i, ok := IndexOf(5, items...); !ok || i != len(items)-1 {
		t.Errorf("invalid indexof: %v != %v || %v != %v", ok, true, i, len(items)-1)
	}
	if _, ok := IndexOf(6, items...); ok {
		t.Errorf("invalid indexof: %v != %v", ok, false)
	}
}

func TestContainsInts(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	if !Contains(items, 1) {
		t.FailNow()
	}
	if !Contains(items, 5, 3) {
		t.FailNow()
	}
	if Contains(items, 0) {
		t.FailNow()
	}
	if Contains(items, 1, 0) {
		t.FailNow()
	}
}

func TestAppendUniqInts(t *testing.T) {
	if new := AppendUniq([]int{1, 2}, 2, 3, 3); !slices.Equal(new, []int{1, 2, 3}) {
		t.Errorf("invalid append uniq: %v", new)
	}
}

func TestMapInts(t *testing.T) {
	if new := Map(func(i int) int { return i * 2 }, 1, 2, 3); !slices.Equal(new, []int{2, 4, 6}) {
		t.Errorf("invalid map: %v", new)
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]int{"b": 1, "c": 2, "a": 3})
	if !slices.Equal(keys, []string{"a", "b", "c"}) {
		t.Errorf("invalid sorted keys: %v", keys)
	}
	if keys := SortedKeys(map[string]int{}); len(keys) != 0 {
		t.Errorf("invalid sorted keys: %v", keys)
	}
}

func TestStringSetAppendUniq(t *testing.T) {
	set := NewStringSet("b", "a", "b")
	if !set.Equals(StringSet{"b", "a"}) {
		t.Errorf("invalid string set: %v", set)
	}
	set.AppendUniq("c", "a")
	if !set.Equals(StringSet{"b", "a", "c"}) {
		t.Errorf("invalid string set: %v", set)
	}
	if !set.Contains("a", "c") || set.Contains("d") {
		t.Errorf("invalid contains: %v", set)
	}
}

func TestStringSetSorted(t *testing.T) {
	set := NewStringSet("/usr/local/lib", "/usr/lib")
	sorted := set.Sorted()
	if !sorted.Equals(StringSet{"/usr/lib", "/usr/local/lib"}) {
		t.Errorf("invalid sorted set: %v", sorted)
	}
	if !set.Equals(StringSet{"/usr/local/lib", "/usr/lib"}) {
		t.Errorf("sorted copy modified the source: %v", set)
	}
}

func TestStringSetSet(t *testing.T) {
	var set StringSet
	if err := set.Set("UFS, LLVM,,UFS"); err != nil {
		t.Fatal(err)
	}
	if set.String() != "UFS,LLVM" {
		t.Errorf("invalid parsed set: %q", set.String())
	}
}
