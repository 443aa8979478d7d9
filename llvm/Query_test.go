package llvm

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/internal/hal"
	internal_io "github.com/poppolopoppo/faultllvm/internal/io"
	"github.com/poppolopoppo/faultllvm/utils"
)

var testLlvmConfigOutputs = map[string]string{
	"--version":                   "17.0.6\n",
	"--src-root":                  "/build/llvm-17\n",
	"--bindir":                    "/usr/lib/llvm-17/bin\n",
	"--includedir":                "/usr/lib/llvm-17/include\n",
	"--libdir":                    "/usr/lib/llvm-17/lib\n",
	"--ldflags":                   "-L/usr/lib/llvm-17/lib -L/usr/local/lib -Wl,-rpath\n",
	"--libs coverage profiledata": "-lLLVMCoverage -lLLVMProfileData\n-lLLVMSupport\n",
	"--system-libs":               "-lrt -ldl -lm -lz\n",
}

// fakeLlvmConfig replays canned outputs through the output callback, like RunProcess does.
func fakeLlvmConfig(outputs map[string]string) ProcessRunner {
	return func(executable utils.Filename, arguments base.StringSet, options ...internal_io.ProcessOptionFunc) error {
		var po internal_io.ProcessOptions
		po.Init(options...)

		output, ok := outputs[arguments.Join(" ")]
		if !ok {
			return internal_io.ProcessError{Executable: executable, Arguments: arguments, ExitCode: 1, Inner: errors.New("unknown option")}
		}
		for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
			if err := po.OnOutput(line); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestQueryInstrumentation(t *testing.T) {
	llvmConfig := utils.MakeFilename("/usr/bin/llvm-config")
	instr, err := QueryInstrumentation(fakeLlvmConfig(testLlvmConfigOutputs), llvmConfig)
	if err != nil {
		t.Fatalf("QueryInstrumentation: %v", err)
	}

	bin := utils.MakeDirectory("/usr/lib/llvm-17/bin")
	if diff := cmp.Diff(Instrumentation{
		Version:    "17.0.6",
		SourceRoot: "/build/llvm-17",
		Merge:      bin.File(hal.ExecutableName("llvm-profdata")),
		Export:     bin.File(hal.ExecutableName("llvm-cov")),
		Query: QueryResult{
			Include:            []string{"/usr/lib/llvm-17/include"},
			LibraryDirectories: base.StringSet{"/usr/lib/llvm-17/lib", "/usr/local/lib"},
			CoverageLibraries:  base.StringSet{"LLVMCoverage", "LLVMProfileData", "LLVMSupport"},
			SystemLibraries:    base.StringSet{"rt", "dl", "m", "z"},
		},
	}, instr); diff != "" {
		t.Errorf("QueryInstrumentation: mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryInstrumentationFailure(t *testing.T) {
	outputs := map[string]string{}
	for key, value := range testLlvmConfigOutputs {
		outputs[key] = value
	}
	delete(outputs, "--system-libs")

	_, err := QueryInstrumentation(fakeLlvmConfig(outputs), utils.MakeFilename("/usr/bin/llvm-config"))

	var queryErr QueryError
	if !errors.As(err, &queryErr) || queryErr.Option != "--system-libs" {
		t.Fatalf("QueryInstrumentation: expected a QueryError on --system-libs, got %v", err)
	}
	var processErr internal_io.ProcessError
	if !errors.As(err, &processErr) || processErr.ExitCode != 1 {
		t.Errorf("QueryInstrumentation: expected the process error to be wrapped, got %v", err)
	}
}

func TestQueryInstrumentationEmptyVersion(t *testing.T) {
	_, err := QueryInstrumentation(fakeLlvmConfig(map[string]string{"--version": "\n"}), utils.MakeFilename("/usr/bin/llvm-config"))

	var queryErr QueryError
	if !errors.As(err, &queryErr) || queryErr.Option != "--version" {
		t.Errorf("QueryInstrumentation: expected a QueryError on --version, got %v", err)
	}
}

func TestSplitFlags(t *testing.T) {
	got := splitFlags("-l", "-lm -L/usr/lib -l", "  -lz\t-pthread")
	if diff := cmp.Diff([]string{"m", "z"}, got); diff != "" {
		t.Errorf("splitFlags: mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveLlvmConfig(t *testing.T) {
	f, err := ResolveLlvmConfig("/usr/bin/llvm-config")
	if err != nil || f.String() != "/usr/bin/llvm-config" {
		t.Errorf("ResolveLlvmConfig: unexpected %v (%v)", f, err)
	}

	f, err = ResolveLlvmConfig("bin/llvm-config")
	if err != nil || !f.Equals(utils.UFS.Root.File("bin", "llvm-config")) {
		t.Errorf("ResolveLlvmConfig: relative paths should start from root, got %v (%v)", f, err)
	}

	if _, err = ResolveLlvmConfig("fault-llvm-no-such-tool"); err == nil {
		t.Errorf("ResolveLlvmConfig: expected an error for a tool missing from PATH")
	}
}
