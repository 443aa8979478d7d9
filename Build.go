package faultllvm

import (
	"github.com/poppolopoppo/faultllvm/app"
	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/internal/cmd"
	"github.com/poppolopoppo/faultllvm/utils"
)

var LogFaultLLVM = base.NewLogCategory("FaultLLVM")

/***************************************
 * Launch Command (program entry point)
 ***************************************/

// LaunchCommand runs the command line, the adapter sources are looked up next to this file first.
func LaunchCommand(prefix string) error {
	source, err := utils.UFS.GetCallerFile(1)
	if err != nil {
		base.LogVerbose(LogFaultLLVM, "%v", err)
	}

	return app.WithCommandEnv(prefix, source, cmd.DEFAULT_COMMAND, func(env *utils.CommandEnvT) error {
		base.LogTrace(LogFaultLLVM, "%s started at %v on %v", prefix, env.StartedAt(), base.GetCurrentHost())
		return env.Run()
	})
}
