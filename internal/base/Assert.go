package base

import "fmt"

/***************************************
 * Assertions
 ***************************************/

// Assert panics when pred does not hold. Reserved to programmer errors:
// conditions a user can trigger are reported with an error instead.
func Assert(pred func() bool) {
	if !pred() {
		Panicf("failed assertion")
	}
}

func AssertNotIn[T comparable](elt T, forbidden ...T) {
	if _, found := IndexOf(elt, forbidden...); found {
		Panicf("forbidden value <%v>", elt)
	}
}

func UnexpectedValue(x interface{}) {
	Panic(MakeUnexpectedValueError(x, x))
}

func MakeUnexpectedValueError(dst interface{}, value interface{}) error {
	return fmt.Errorf("unexpected <%T> value: %#v", dst, value)
}
