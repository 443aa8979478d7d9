package base

import (
	"flag"
	"strings"
)

/***************************************
 * Command line values
 ***************************************/

// InheritableCommandLine sets variable from input when input reads "-name=value".
func InheritableCommandLine(name, input string, variable flag.Value) (bool, error) {
	value, ok := strings.CutPrefix(input, "-"+name+"=")
	if !ok {
		return false, nil
	}
	return true, variable.Set(value)
}

/***************************************
 * InheritableString
 ***************************************/

// InheritableString is a string flag. Empty means unset, the config file or a default then applies.
type InheritableString string

func (x InheritableString) Empty() bool    { return x == "" }
func (x InheritableString) Get() string    { return string(x) }
func (x InheritableString) String() string { return string(x) }
func (x *InheritableString) Set(in string) error {
	*x = InheritableString(in)
	return nil
}

func (x InheritableString) MarshalText() ([]byte, error) {
	return []byte(x), nil
}
func (x *InheritableString) UnmarshalText(data []byte) error {
	return x.Set(string(data))
}

/***************************************
 * InheritableBool
 ***************************************/

// InheritableBool is a tri-state switch: unset (inherit), false or true.
type InheritableBool int32

const (
	INHERITABLE_INHERIT InheritableBool = iota
	INHERITABLE_FALSE
	INHERITABLE_TRUE
)

const INHERIT_STRING = "INHERIT"

var inheritableBoolSpellings = map[string]InheritableBool{
	"TRUE": INHERITABLE_TRUE, "1": INHERITABLE_TRUE, "ON": INHERITABLE_TRUE,
	"FALSE": INHERITABLE_FALSE, "0": INHERITABLE_FALSE, "OFF": INHERITABLE_FALSE,
	INHERIT_STRING: INHERITABLE_INHERIT,
}

func (x InheritableBool) Get() bool           { return x == INHERITABLE_TRUE }
func (x InheritableBool) IsInheritable() bool { return x == INHERITABLE_INHERIT }

func (x InheritableBool) String() string {
	switch x {
	case INHERITABLE_TRUE:
		return "TRUE"
	case INHERITABLE_FALSE:
		return "FALSE"
	default:
		return INHERIT_STRING
	}
}
func (x *InheritableBool) Set(in string) error {
	value, ok := inheritableBoolSpellings[strings.ToUpper(in)]
	if !ok {
		return MakeUnexpectedValueError(x, in)
	}
	*x = value
	return nil
}

// CommandLine accepts "-name", "-no-name" and "-name=<bool>".
func (x *InheritableBool) CommandLine(name, input string) (bool, error) {
	switch input {
	case "-" + name:
		*x = INHERITABLE_TRUE
		return true, nil
	case "-no-" + name:
		*x = INHERITABLE_FALSE
		return true, nil
	default:
		return InheritableCommandLine(name, input, x)
	}
}

func (x InheritableBool) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}
func (x *InheritableBool) UnmarshalText(data []byte) error {
	return x.Set(string(data))
}
