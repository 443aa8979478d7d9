package llvm

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/internal/hal"
	internal_io "github.com/poppolopoppo/faultllvm/internal/io"
	"github.com/poppolopoppo/faultllvm/utils"
)

/***************************************
 * Query result
 ***************************************/

// QueryResult lists what the adapters need to compile and link against llvm/clang.
type QueryResult struct {
	Include            []string       `json:"include"`
	LibraryDirectories base.StringSet `json:"library-directories"`
	CoverageLibraries  base.StringSet `json:"coverage-libraries"`
	SystemLibraries    base.StringSet `json:"system-libraries"`
	Source             utils.Filename `json:"source"`
}

// Instrumentation is everything learnt from llvm-config.
type Instrumentation struct {
	Version    string         `json:"version"`
	SourceRoot string         `json:"source-root"`
	Merge      utils.Filename `json:"merge"`
	Export     utils.Filename `json:"export"`
	Query      QueryResult    `json:"query"`
}

/***************************************
 * Query
 ***************************************/

// ProcessRunner has the signature of internal/io.RunProcess, so tests can fake llvm-config.
type ProcessRunner = func(executable utils.Filename, arguments base.StringSet, options ...internal_io.ProcessOptionFunc) error

type QueryError struct {
	LlvmConfig utils.Filename
	Option     string
	Inner      error
}

func (x QueryError) Error() string {
	return fmt.Sprintf("llvm-config %q %s: %v", x.LlvmConfig, x.Option, x.Inner)
}
func (x QueryError) Unwrap() error {
	return x.Inner
}

func runLlvmConfig(run ProcessRunner, llvmConfig utils.Filename, arguments ...string) ([]string, error) {
	var output []string
	err := run(llvmConfig, base.StringSet(arguments),
		internal_io.OptionProcessCaptureOutput,
		internal_io.OptionProcessExport("LC_ALL", "C"),
		internal_io.OptionProcessOutput(func(line string) error {
			output = append(output, line)
			return nil
		}))
	if err != nil {
		return nil, QueryError{
			LlvmConfig: llvmConfig,
			Option:     strings.Join(arguments, " "),
			Inner:      err,
		}
	}
	return output, nil
}

// splitFlags returns the value of every flag starting with prefix, in order of appearance.
func splitFlags(prefix string, lines ...string) (result []string) {
	for _, line := range lines {
		for _, it := range strings.Fields(line) {
			if value, ok := strings.CutPrefix(it, prefix); ok && len(value) > 0 {
				result = append(result, value)
			}
		}
	}
	return
}

func firstLine(lines []string) string {
	for _, it := range lines {
		if it = strings.TrimSpace(it); len(it) > 0 {
			return it
		}
	}
	return ""
}

// ResolveLlvmConfig looks up bare tool names in PATH, other paths are taken from the root directory.
func ResolveLlvmConfig(in string) (result utils.Filename, err error) {
	if !strings.ContainsRune(in, filepath.Separator) && !strings.ContainsRune(in, '/') {
		var found string
		if found, err = exec.LookPath(in); err != nil {
			return
		}
		in = found
	}
	err = result.Set(in)
	return
}

// QueryInstrumentation runs llvmConfig once per option and parses its output.
func QueryInstrumentation(run ProcessRunner, llvmConfig utils.Filename) (result Instrumentation, err error) {
	benchmark := base.LogBenchmark(LogLLVM, "query %q", llvmConfig)
	defer benchmark.Close()

	var lines []string
	if lines, err = runLlvmConfig(run, llvmConfig, "--version"); err != nil {
		return
	}
	result.Version = firstLine(lines)
	if len(result.Version) == 0 {
		err = QueryError{LlvmConfig: llvmConfig, Option: "--version", Inner: fmt.Errorf("empty output")}
		return
	}

	if lines, err = runLlvmConfig(run, llvmConfig, "--src-root"); err != nil {
		return
	}
	result.SourceRoot = firstLine(lines)

	if lines, err = runLlvmConfig(run, llvmConfig, "--bindir"); err != nil {
		return
	}
	if bindir := firstLine(lines); len(bindir) > 0 {
		bin := utils.MakeDirectory(bindir)
		result.Merge = bin.File(hal.ExecutableName("llvm-profdata"))
		result.Export = bin.File(hal.ExecutableName("llvm-cov"))
	}

	if lines, err = runLlvmConfig(run, llvmConfig, "--includedir"); err != nil {
		return
	}
	result.Query.Include = base.SplitLines(strings.Join(lines, "\n"))

	if lines, err = runLlvmConfig(run, llvmConfig, "--libdir"); err != nil {
		return
	}
	result.Query.LibraryDirectories.AppendUniq(base.SplitLines(strings.Join(lines, "\n"))...)

	if lines, err = runLlvmConfig(run, llvmConfig, "--ldflags"); err != nil {
		return
	}
	result.Query.LibraryDirectories.AppendUniq(splitFlags("-L", lines...)...)

	if lines, err = runLlvmConfig(run, llvmConfig, "--libs", "coverage", "profiledata"); err != nil {
		return
	}
	result.Query.CoverageLibraries.AppendUniq(splitFlags("-l", lines...)...)

	if lines, err = runLlvmConfig(run, llvmConfig, "--system-libs"); err != nil {
		return
	}
	result.Query.SystemLibraries.AppendUniq(splitFlags("-l", lines...)...)

	base.LogVerbose(LogLLVM, "found llvm %s with %d library directories, %d coverage and %d system libraries",
		result.Version,
		result.Query.LibraryDirectories.Len(),
		result.Query.CoverageLibraries.Len(),
		result.Query.SystemLibraries.Len())
	return
}
