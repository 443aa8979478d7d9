package factory

import (
	"fmt"
	"strings"

	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/utils"
)

var LogFactory = base.NewLogCategory("Factory")

const FactorTypePrefix = "http://if.fault.io/factors/"

/***************************************
 * Factor Type
 ***************************************/

// FactorType identifies the type of a factor, as "<namespace>.<name>" under the factors domain.
type FactorType struct {
	Namespace string
	Name      string
}

func MakeFactorType(namespace, name string) FactorType {
	base.Assert(func() bool { return len(namespace) > 0 && !strings.ContainsAny(namespace, "./") })
	base.Assert(func() bool { return len(name) > 0 && !strings.ContainsAny(name, "./") })
	return FactorType{Namespace: namespace, Name: name}
}

// ParseFactorType accepts both the full uri and the short "<namespace>.<name>" form.
func ParseFactorType(in string) (FactorType, error) {
	short := strings.TrimPrefix(in, FactorTypePrefix)
	namespace, name, ok := strings.Cut(short, ".")
	if !ok || len(namespace) == 0 || len(name) == 0 || strings.ContainsAny(short, "/") || strings.Contains(name, ".") {
		return FactorType{}, fmt.Errorf("invalid factor type %q", in)
	}
	return FactorType{Namespace: namespace, Name: name}, nil
}

func (x FactorType) Valid() bool { return len(x.Namespace) > 0 && len(x.Name) > 0 }
func (x FactorType) Domain() string {
	return FactorTypePrefix + x.Namespace
}
func (x FactorType) String() string {
	return FactorTypePrefix + x.Namespace + "." + x.Name
}
func (x *FactorType) Set(in string) (err error) {
	*x, err = ParseFactorType(in)
	return
}
func (x FactorType) MarshalText() ([]byte, error) {
	return base.UnsafeBytesFromString(x.String()), nil
}
func (x *FactorType) UnmarshalText(data []byte) error {
	return x.Set(string(data))
}

var (
	FACTOR_META_REFERENCES   = MakeFactorType("meta", "references")
	FACTOR_META_SOURCES      = MakeFactorType("meta", "sources")
	FACTOR_SYSTEM_REFERENCES = MakeFactorType("system", "references")
	FACTOR_SYSTEM_EXECUTABLE = MakeFactorType("system", "executable")
)

/***************************************
 * Records
 ***************************************/

type Information struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Authority  string `json:"authority"`
	Contact    string `json:"contact"`
}

// Sole is a factor made of a single text, written in the project directory.
type Sole struct {
	Name string     `json:"name"`
	Type FactorType `json:"type"`
	Text string     `json:"text"`
}

type Source struct {
	Identifier string         `json:"identifier"`
	Path       utils.Filename `json:"path"`
}

// Set is a factor made of several source files, with dotted relative requirements such as ".fault".
type Set struct {
	Name         string     `json:"name"`
	Type         FactorType `json:"type"`
	Requirements []string   `json:"requirements"`
	Sources      []Source   `json:"sources"`
}

type Parameters struct {
	Information Information `json:"information"`
	Formats     Formats     `json:"formats"`
	Soles       []Sole      `json:"soles"`
	Sets        []Set       `json:"sets"`
}

func (x *Parameters) FindSole(name string) (*Sole, bool) {
	for i := range x.Soles {
		if x.Soles[i].Name == name {
			return &x.Soles[i], true
		}
	}
	return nil, false
}
func (x *Parameters) FindSet(name string) (*Set, bool) {
	for i := range x.Sets {
		if x.Sets[i].Name == name {
			return &x.Sets[i], true
		}
	}
	return nil, false
}

// Validate checks names are unique and every requirement names a factor of the same project.
func (x *Parameters) Validate() error {
	names := make(map[string]bool, len(x.Soles)+len(x.Sets))
	for _, it := range x.Soles {
		if names[it.Name] {
			return fmt.Errorf("duplicate factor name %q", it.Name)
		}
		names[it.Name] = true
	}
	for _, it := range x.Sets {
		if names[it.Name] {
			return fmt.Errorf("duplicate factor name %q", it.Name)
		}
		names[it.Name] = true
	}
	for _, set := range x.Sets {
		for _, req := range set.Requirements {
			if !strings.HasPrefix(req, ".") || !names[req[1:]] {
				return fmt.Errorf("factor %q requires unknown factor %q", set.Name, req)
			}
		}
		ids := make(map[string]bool, len(set.Sources))
		for _, src := range set.Sources {
			if ids[src.Identifier] {
				return fmt.Errorf("factor %q has duplicate source %q", set.Name, src.Identifier)
			}
			ids[src.Identifier] = true
		}
	}
	return nil
}
