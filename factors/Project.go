package factors

import (
	"fmt"

	"github.com/poppolopoppo/faultllvm/factory"
	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/utils"
)

var LogFactors = base.NewLogCategory("Factors")

/***************************************
 * Factor
 ***************************************/

// Factor is a source file of the local project, identified by its stem.
type Factor struct {
	Name   string
	Domain string
	Format factory.Format
	Path   utils.Filename
}

// Identifier is the file name of the factor, extension included.
func (x Factor) Identifier() string {
	return x.Path.Basename
}

type MissingFactorError struct {
	Project utils.Directory
	Name    string
}

func (x MissingFactorError) Error() string {
	return fmt.Sprintf("factor %q not found in %q", x.Name, x.Project)
}

type AmbiguousFactorError struct {
	Name  string
	Paths []utils.Filename
}

func (x AmbiguousFactorError) Error() string {
	return fmt.Sprintf("factor %q is ambiguous: %v", x.Name, x.Paths)
}

/***************************************
 * Project
 ***************************************/

type Project struct {
	Directory utils.Directory
	factors   map[string]Factor
}

// LoadProject collects every file of dir whose extension is declared in formats.
// Two files sharing the same stem are reported as an ambiguity.
func LoadProject(dir utils.Directory, formats factory.Formats) (*Project, error) {
	files, err := dir.Files()
	if err != nil {
		return nil, fmt.Errorf("load project factors from %q: %w", dir, err)
	}

	result := &Project{
		Directory: dir,
		factors:   make(map[string]Factor, len(files)),
	}

	domains := formats.Domains()
	for _, f := range files {
		ext := f.Ext()
		if len(ext) == 0 {
			continue
		}

		factor := Factor{Name: f.TrimExt(), Path: f}
		found := false
		for _, domain := range domains {
			if format, ok := formats.FindExtension(domain, ext); ok {
				factor.Domain, factor.Format = domain, format
				found = true
				break
			}
		}
		if !found {
			base.LogVeryVerbose(LogFactors, "ignore %q: no format declared for %q", f.Basename, ext)
			continue
		}

		if prev, ok := result.factors[factor.Name]; ok {
			return nil, AmbiguousFactorError{Name: factor.Name, Paths: []utils.Filename{prev.Path, f}}
		}

		base.LogDebug(LogFactors, "found factor %q in %q (%v)", factor.Name, factor.Domain, factor.Format)
		result.factors[factor.Name] = factor
	}

	base.LogVerbose(LogFactors, "loaded %d factors from %q", len(result.factors), dir)
	return result, nil
}

func (x *Project) Len() int { return len(x.factors) }

func (x *Project) Names() []string {
	return base.SortedKeys(x.factors)
}

func (x *Project) Find(name string) (Factor, error) {
	if factor, ok := x.factors[name]; ok {
		return factor, nil
	}
	return Factor{}, MissingFactorError{Project: x.Directory, Name: name}
}

// Source returns the file of the factor name.
func (x *Project) Source(name string) (utils.Filename, error) {
	factor, err := x.Find(name)
	return factor.Path, err
}
