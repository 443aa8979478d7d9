package llvm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poppolopoppo/faultllvm/factory"
	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/utils"
)

const FAULT_MACHINES_INCLUDE = "http://fault.io/integration/machines/include"

type InvalidIncludeCount struct {
	Count int
}

func (x InvalidIncludeCount) Error() string {
	return fmt.Sprintf("expected exactly one llvm include directory, got %d", x.Count)
}

// Declare builds the factors of the adapters project from a query result.
// deline lists the sources of the delineate executable, ipq.Source the one of ipquery.
func Declare(cfg Configuration, ipq QueryResult, deline ...utils.Filename) (factory.Parameters, error) {
	if len(ipq.Include) != 1 {
		return factory.Parameters{}, InvalidIncludeCount{Count: len(ipq.Include)}
	}

	// relative include directories are resolved from the filesystem root
	include := utils.Directory{Path: filepath.Join(string(filepath.Separator), ipq.Include[0])}
	libdirs := sortedUniq(ipq.LibraryDirectories)

	soles := []factory.Sole{
		{
			Name: "fault",
			Type: cfg.FactorReferences,
			Text: FAULT_MACHINES_INCLUDE,
		},
		{
			Name: "libclang-is",
			Type: cfg.SystemReferences,
			Text: joinLines(libdirs, []string{"clang"}),
		},
		{
			Name: "libllvm-is",
			Type: cfg.SystemReferences,
			Text: joinLines(libdirs, sortedUniq(ipq.CoverageLibraries), sortedUniq(ipq.SystemLibraries)),
		},
	}

	delineate := make([]factory.Source, len(deline))
	for i, it := range deline {
		delineate[i] = factory.Source{Identifier: it.Basename, Path: it}
	}

	sets := []factory.Set{
		{
			Name:         "libclang-if",
			Type:         factory.FACTOR_META_SOURCES,
			Requirements: []string{},
			Sources: []factory.Source{
				{Identifier: "clang-c", Path: include.File("clang-c")},
			},
		},
		{
			Name:         "libllvm-if",
			Type:         factory.FACTOR_META_SOURCES,
			Requirements: []string{},
			Sources: []factory.Source{
				{Identifier: "llvm", Path: include.File("llvm")},
				{Identifier: "llvm-c", Path: include.File("llvm-c")},
			},
		},
		{
			Name:         "delineate",
			Type:         factory.FACTOR_SYSTEM_EXECUTABLE,
			Requirements: []string{".fault", ".libclang-is", ".libclang-if"},
			Sources:      delineate,
		},
		{
			Name:         "ipquery",
			Type:         factory.FACTOR_SYSTEM_EXECUTABLE,
			Requirements: []string{".fault", ".libllvm-is", ".libllvm-if"},
			Sources: []factory.Source{
				{Identifier: "ipq.cc", Path: ipq.Source},
			},
		},
	}

	return factory.Parameters{
		Information: cfg.Information,
		Formats:     cfg.Formats,
		Soles:       soles,
		Sets:        sets,
	}, nil
}

func sortedUniq(set base.StringSet) base.StringSet {
	return base.NewStringSet(set...).Sorted()
}

// joinLines concatenates groups one entry per line, with a trailing line break.
func joinLines(groups ...[]string) string {
	sb := strings.Builder{}
	for _, group := range groups {
		for _, it := range group {
			sb.WriteString(it)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
