package cmd

import (
	"github.com/poppolopoppo/faultllvm/factory"
	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/llvm"

	//lint:ignore ST1001 ignore dot imports warning
	. "github.com/poppolopoppo/faultllvm/utils"
)

const DEFAULT_COMMAND = "connect"

/***************************************
 * Connect
 ***************************************/

type ConnectCommand struct {
	Target     Directory
	LlvmConfig StringVar
}

var CommandConnect = NewCommandable(
	"Adapters",
	DEFAULT_COMMAND,
	"instantiate the llvm adapters project in target",
	&ConnectCommand{})

func (x *ConnectCommand) Init(cc CommandContext) error {
	cc.Options(
		OptionCommandConsumeArg("target", "directory receiving the adapters project, created when missing", &x.Target),
		OptionCommandConsumeArg("llvm-config", "llvm-config executable of the llvm installation to connect", &x.LlvmConfig),
		OptionCommandNotes("this command is run when the first argument does not name a command,\n"+
			"write `-- <target> <llvm-config>` when target is named after a command"))
	return nil
}

func (x *ConnectCommand) Run(cc CommandContext) error {
	llvmConfig, err := llvm.ResolveLlvmConfig(x.LlvmConfig.Get())
	if err != nil {
		return err
	}

	flags := GetCommandFlags()
	summary := factory.InstantiateSummary{}

	err = llvm.Connect(x.Target, llvmConfig,
		llvm.OptionConnectTools(UFS.Tools),
		llvm.OptionConnectInstantiate(
			factory.OptionInstantiateForce(flags.Force.Get()),
			factory.OptionInstantiateDryRun(flags.DryRun.Get()),
			factory.OptionInstantiateSummary(&summary)))
	if err != nil {
		return err
	}

	prefix := ""
	if flags.DryRun.Get() {
		prefix = "would have "
	}
	for _, it := range summary.Written {
		base.LogInfo(LogCommand, "%swritten %q", prefix, it)
	}
	for _, it := range summary.Linked {
		base.LogInfo(LogCommand, "%slinked %q", prefix, it)
	}
	base.LogVerbose(LogCommand, "%d files written, %d links created, %d up-to-date",
		len(summary.Written), len(summary.Linked), len(summary.Unchanged))
	return nil
}
