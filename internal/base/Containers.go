package base

import (
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

/***************************************
 * Container helpers
 ***************************************/

func CopySlice[T any](in ...T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func IndexOf[T comparable](match T, values ...T) (int, bool) {
	for i, x := range values {
		if x == match {
			return i, true
		}
	}
	return -1, false
}

func Contains[T comparable](arr []T, values ...T) bool {
	for _, x := range values {
		if _, ok := IndexOf(x, arr...); !ok {
			return false
		}
	}
	return true
}

func AppendUniq[T comparable](src []T, elts ...T) (result []T) {
	result = src
	for _, x := range elts {
		if !Contains(result, x) {
			result = append(result, x)
		}
	}
	return result
}

func Map[IN, OUT any](transform func(IN) OUT, src ...IN) []OUT {
	result := make([]OUT, len(src))
	for i, x := range src {
		result[i] = transform(x)
	}
	return result
}

// SortedKeys returns the keys of m in ascending order, for deterministic iteration.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

/***************************************
 * String set
 ***************************************/

type StringSet []string

func NewStringSet(x ...string) (result StringSet) {
	result = make(StringSet, 0, len(x))
	result.AppendUniq(x...)
	return
}

func (set StringSet) Len() int {
	return len(set)
}
func (set StringSet) Slice() []string {
	return set
}
func (set StringSet) IndexOf(it string) (int, bool) {
	return IndexOf(it, set...)
}
func (set StringSet) Contains(it ...string) bool {
	return Contains(set.Slice(), it...)
}
func (set *StringSet) Append(it ...string) *StringSet {
	Assert(func() bool {
		for _, x := range it {
			if len(x) == 0 {
				return false
			}
		}
		return true
	})
	*set = append(*set, it...)
	return set
}
func (set *StringSet) AppendUniq(it ...string) *StringSet {
	*set = AppendUniq(*set, it...)
	return set
}
func (set *StringSet) Clear() *StringSet {
	*set = []string{}
	return set
}
func (set StringSet) Equals(other StringSet) bool {
	if len(set) != len(other) {
		return false
	}
	for i, x := range set {
		if other[i] != x {
			return false
		}
	}
	return true
}
func (set StringSet) Sort() {
	sort.Strings(set)
}

// Sorted returns a sorted copy and leaves set untouched.
func (set StringSet) Sorted() StringSet {
	result := StringSet(CopySlice(set...))
	result.Sort()
	return result
}

func (set StringSet) Join(sep string) string {
	return strings.Join(set.Slice(), sep)
}
func (set StringSet) String() string {
	return set.Join(",")
}
func (set *StringSet) Set(in string) error {
	set.Clear()
	for _, x := range strings.Split(in, ",") {
		if x = strings.TrimSpace(x); len(x) > 0 {
			set.AppendUniq(x)
		}
	}
	return nil
}
