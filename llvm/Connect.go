package llvm

import (
	"os"

	"github.com/poppolopoppo/faultllvm/factors"
	"github.com/poppolopoppo/faultllvm/factory"
	"github.com/poppolopoppo/faultllvm/internal/base"
	internal_io "github.com/poppolopoppo/faultllvm/internal/io"
	"github.com/poppolopoppo/faultllvm/utils"
)

/***************************************
 * Connect Options
 ***************************************/

type ConnectOptions struct {
	Configuration Configuration
	Runner        ProcessRunner
	Tools         utils.Directory
	Instantiate   []factory.InstantiateOptionFunc
}

type ConnectOptionFunc func(*ConnectOptions)

func NewConnectOptions(options ...ConnectOptionFunc) (result ConnectOptions) {
	result.Configuration = NewConfiguration()
	result.Runner = internal_io.RunProcess
	result.Tools = utils.UFS.Tools
	for _, it := range options {
		it(&result)
	}
	return
}

func OptionConnectRunner(runner ProcessRunner) ConnectOptionFunc {
	return func(co *ConnectOptions) {
		co.Runner = runner
	}
}
func OptionConnectTools(tools utils.Directory) ConnectOptionFunc {
	return func(co *ConnectOptions) {
		co.Tools = tools
	}
}
func OptionConnectInstantiate(options ...factory.InstantiateOptionFunc) ConnectOptionFunc {
	return func(co *ConnectOptions) {
		co.Instantiate = append(co.Instantiate, options...)
	}
}

/***************************************
 * Adapter sources
 ***************************************/

type AdapterSources struct {
	Ipq    utils.Filename
	Deline []utils.Filename
}

// LoadAdapterSources finds the ipq, delineate and json factors in the tools directory.
func LoadAdapterSources(tools utils.Directory, formats factory.Formats) (result AdapterSources, err error) {
	var project *factors.Project
	if project, err = factors.LoadProject(tools, formats); err != nil {
		return
	}
	if result.Ipq, err = project.Source("ipq"); err != nil {
		return
	}

	result.Deline = make([]utils.Filename, 2)
	if result.Deline[0], err = project.Source("delineate"); err != nil {
		return
	}
	if result.Deline[1], err = project.Source("json"); err != nil {
		return
	}
	return
}

// Prepare queries llvmConfig and declares the adapters project, without writing anything.
func Prepare(llvmConfig utils.Filename, options ConnectOptions) (factory.Parameters, Instrumentation, error) {
	sources, err := LoadAdapterSources(options.Tools, options.Configuration.Formats)
	if err != nil {
		return factory.Parameters{}, Instrumentation{}, err
	}

	instr, err := QueryInstrumentation(options.Runner, llvmConfig)
	if err != nil {
		return factory.Parameters{}, instr, err
	}
	instr.Query.Source = sources.Ipq

	params, err := Declare(options.Configuration, instr.Query, sources.Deline...)
	return params, instr, err
}

// ResolveRoute makes target absolute with every symbolic link evaluated.
// A target that does not exist yet is resolved from its closest existing parent.
func ResolveRoute(target utils.Directory) (utils.Directory, error) {
	var missing []string
	for it := target; ; it = it.Parent() {
		if _, err := os.Lstat(it.String()); err == nil {
			resolved, err := utils.UFS.Resolve(it)
			if err != nil {
				return utils.Directory{}, err
			}
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = resolved.Folder(missing[i])
			}
			return resolved, nil
		} else if !os.IsNotExist(err) {
			return utils.Directory{}, err
		}

		if it.Parent() == it {
			return target, nil
		}
		missing = append(missing, it.Basename())
	}
}

// Connect instantiates the adapters project in target, using llvmConfig to locate llvm.
func Connect(target utils.Directory, llvmConfig utils.Filename, options ...ConnectOptionFunc) error {
	co := NewConnectOptions(options...)

	route, err := ResolveRoute(target)
	if err != nil {
		return err
	}
	base.LogVerbose(LogLLVM, "connect %q to %q", route, llvmConfig)

	params, instr, err := Prepare(llvmConfig, co)
	if err != nil {
		return err
	}

	if err = factory.Instantiate(params, route, co.Instantiate...); err != nil {
		return err
	}

	base.LogClaim(LogLLVM, "instantiated %s for llvm %s in %q", params.Information.Name, instr.Version, route)
	return nil
}
