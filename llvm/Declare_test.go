package llvm

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/poppolopoppo/faultllvm/factory"
	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/utils"
)

func testQueryResult() QueryResult {
	return QueryResult{
		Include:            []string{"/usr/include"},
		LibraryDirectories: base.StringSet{"/usr/local/lib", "/usr/lib"},
		CoverageLibraries:  base.StringSet{},
		SystemLibraries:    base.StringSet{"m"},
		Source:             utils.MakeFilename("/src/tools/ipq.cc"),
	}
}

var testDelineSources = []utils.Filename{
	utils.MakeFilename("/src/tools/delineate.c"),
	utils.MakeFilename("/src/tools/json.c"),
}

func TestDeclareLibraries(t *testing.T) {
	p, err := Declare(NewConfiguration(), testQueryResult(), testDelineSources...)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}

	libllvm, ok := p.FindSole("libllvm-is")
	if !ok {
		t.Fatalf("Declare: libllvm-is not declared")
	}
	if libllvm.Text != "/usr/lib\n/usr/local/lib\nm\n" {
		t.Errorf("libllvm-is: unexpected text %q", libllvm.Text)
	}

	libclang, _ := p.FindSole("libclang-is")
	if libclang.Text != "/usr/lib\n/usr/local/lib\nclang\n" {
		t.Errorf("libclang-is: unexpected text %q", libclang.Text)
	}

	fault, _ := p.FindSole("fault")
	if fault.Text != FAULT_MACHINES_INCLUDE || fault.Type != factory.FACTOR_META_REFERENCES {
		t.Errorf("fault: unexpected sole %+v", fault)
	}
}

func TestDeclareFactorNames(t *testing.T) {
	p, err := Declare(NewConfiguration(), testQueryResult(), testDelineSources...)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}

	soles := base.Map(func(it factory.Sole) string { return it.Name }, p.Soles...)
	if diff := cmp.Diff([]string{"fault", "libclang-is", "libllvm-is"}, soles); diff != "" {
		t.Errorf("Declare: soles mismatch (-want +got):\n%s", diff)
	}
	sets := base.Map(func(it factory.Set) string { return it.Name }, p.Sets...)
	if diff := cmp.Diff([]string{"libclang-if", "libllvm-if", "delineate", "ipquery"}, sets); diff != "" {
		t.Errorf("Declare: sets mismatch (-want +got):\n%s", diff)
	}

	if err := p.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDeclareSets(t *testing.T) {
	p, err := Declare(NewConfiguration(), testQueryResult(), testDelineSources...)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	include := utils.MakeDirectory("/usr/include")

	llvmIf, _ := p.FindSet("libllvm-if")
	if diff := cmp.Diff(factory.Set{
		Name:         "libllvm-if",
		Type:         factory.FACTOR_META_SOURCES,
		Requirements: []string{},
		Sources: []factory.Source{
			{Identifier: "llvm", Path: include.File("llvm")},
			{Identifier: "llvm-c", Path: include.File("llvm-c")},
		},
	}, *llvmIf); diff != "" {
		t.Errorf("libllvm-if: mismatch (-want +got):\n%s", diff)
	}

	delineate, _ := p.FindSet("delineate")
	if diff := cmp.Diff([]string{".fault", ".libclang-is", ".libclang-if"}, delineate.Requirements); diff != "" {
		t.Errorf("delineate: requirements mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]factory.Source{
		{Identifier: "delineate.c", Path: testDelineSources[0]},
		{Identifier: "json.c", Path: testDelineSources[1]},
	}, delineate.Sources); diff != "" {
		t.Errorf("delineate: sources mismatch (-want +got):\n%s", diff)
	}

	ipquery, _ := p.FindSet("ipquery")
	if diff := cmp.Diff([]factory.Source{
		{Identifier: "ipq.cc", Path: testQueryResult().Source},
	}, ipquery.Sources); diff != "" {
		t.Errorf("ipquery: sources mismatch (-want +got):\n%s", diff)
	}
	if ipquery.Type != factory.FACTOR_SYSTEM_EXECUTABLE {
		t.Errorf("ipquery: unexpected type %v", ipquery.Type)
	}
}

func TestDeclareRelativeInclude(t *testing.T) {
	ipq := testQueryResult()
	ipq.Include = []string{"usr/include"}

	p, err := Declare(NewConfiguration(), ipq, testDelineSources...)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	clangIf, _ := p.FindSet("libclang-if")
	if want := filepath.Join(string(filepath.Separator), "usr", "include", "clang-c"); clangIf.Sources[0].Path.String() != want {
		t.Errorf("libclang-if: expected %q, got %q", want, clangIf.Sources[0].Path)
	}
}

func TestDeclareIsIdempotent(t *testing.T) {
	a, err := Declare(NewConfiguration(), testQueryResult(), testDelineSources...)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Declare(NewConfiguration(), testQueryResult(), testDelineSources...)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Declare: mismatch between identical calls (-first +second):\n%s", diff)
	}
}

func TestDeclareDoesNotSortInputs(t *testing.T) {
	ipq := testQueryResult()
	if _, err := Declare(NewConfiguration(), ipq, testDelineSources...); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(base.StringSet{"/usr/local/lib", "/usr/lib"}, ipq.LibraryDirectories); diff != "" {
		t.Errorf("Declare: input was modified (-want +got):\n%s", diff)
	}
}

func TestDeclareDuplicateLibraries(t *testing.T) {
	ipq := testQueryResult()
	ipq.LibraryDirectories = base.StringSet{"/usr/lib", "/usr/local/lib", "/usr/lib"}
	ipq.CoverageLibraries = base.StringSet{"LLVMCoverage", "LLVMCoverage"}
	ipq.SystemLibraries = base.StringSet{"m", "z", "m"}

	p, err := Declare(NewConfiguration(), ipq, testDelineSources...)
	if err != nil {
		t.Fatal(err)
	}

	libclang, _ := p.FindSole("libclang-is")
	if libclang.Text != "/usr/lib\n/usr/local/lib\nclang\n" {
		t.Errorf("libclang-is: unexpected text %q", libclang.Text)
	}
	libllvm, _ := p.FindSole("libllvm-is")
	if libllvm.Text != "/usr/lib\n/usr/local/lib\nLLVMCoverage\nm\nz\n" {
		t.Errorf("libllvm-is: unexpected text %q", libllvm.Text)
	}
}

func TestDeclareInvalidIncludeCount(t *testing.T) {
	for _, include := range [][]string{nil, {"/usr/include", "/usr/local/include"}} {
		ipq := testQueryResult()
		ipq.Include = include

		_, err := Declare(NewConfiguration(), ipq, testDelineSources...)
		var invalid InvalidIncludeCount
		if !errors.As(err, &invalid) || invalid.Count != len(include) {
			t.Errorf("Declare(%v): expected InvalidIncludeCount{%d}, got %v", include, len(include), err)
		}
	}
}
