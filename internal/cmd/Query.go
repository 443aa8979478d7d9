package cmd

import (
	"github.com/poppolopoppo/faultllvm/factory"
	"github.com/poppolopoppo/faultllvm/internal/base"
	internal_io "github.com/poppolopoppo/faultllvm/internal/io"
	"github.com/poppolopoppo/faultllvm/llvm"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/faultllvm/utils"
)

/***************************************
 * Query
 ***************************************/

type QueryCommand struct {
	LlvmConfig StringVar
}

var CommandQuery = NewCommandable(
	"Adapters",
	"query",
	"print what llvm-config reports about the llvm installation, as json",
	&QueryCommand{})

func (x *QueryCommand) Init(cc CommandContext) error {
	cc.Options(OptionCommandConsumeArg("llvm-config", "llvm-config executable to query", &x.LlvmConfig))
	return nil
}

func (x *QueryCommand) Run(cc CommandContext) error {
	llvmConfig, err := llvm.ResolveLlvmConfig(x.LlvmConfig.Get())
	if err != nil {
		return err
	}

	instr, err := llvm.QueryInstrumentation(internal_io.RunProcess, llvmConfig)
	if err != nil {
		return err
	}

	base.LogForwardln(base.PrettyPrint(instr))
	return nil
}

/***************************************
 * Declare
 ***************************************/

type DeclareCommand struct {
	LlvmConfig StringVar
	Text       BoolVar
}

var CommandDeclare = NewCommandable(
	"Adapters",
	"declare",
	"print the factors of the adapters project without instantiating them",
	&DeclareCommand{
		Text: base.INHERITABLE_FALSE,
	})

func (x *DeclareCommand) Init(cc CommandContext) error {
	cc.Options(
		OptionCommandParsableFlags("DeclareCommand", "control declare output", x),
		OptionCommandConsumeArg("llvm-config", "llvm-config executable to query", &x.LlvmConfig))
	return nil
}
func (x *DeclareCommand) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("Text", "print the project and factor indexes instead of json", &x.Text)
}

func (x *DeclareCommand) Run(cc CommandContext) error {
	llvmConfig, err := llvm.ResolveLlvmConfig(x.LlvmConfig.Get())
	if err != nil {
		return err
	}

	params, _, err := llvm.Prepare(llvmConfig, llvm.NewConnectOptions(llvm.OptionConnectTools(UFS.Tools)))
	if err != nil {
		return err
	}

	if !x.Text.Get() {
		base.LogForwardln(base.PrettyPrint(params))
		return nil
	}

	index, err := factory.RenderProjectIndex(params)
	if err != nil {
		return err
	}
	base.LogForwardln("# ", factory.PROJECT_INDEX)
	base.LogForward(base.UnsafeStringFromBytes(index))

	for _, set := range params.Sets {
		if index, err = factory.RenderFactorIndex(set); err != nil {
			return err
		}
		base.LogForwardln("# ", set.Name, "/", factory.FACTOR_INDEX)
		base.LogForward(base.UnsafeStringFromBytes(index))
	}
	return nil
}
