package app

import (
	"os"
	"time"

	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/internal/hal"
	"github.com/poppolopoppo/faultllvm/utils"
)

func WithCommandEnv(prefix string, caller utils.Filename, defaultCommand string, scope func(*utils.CommandEnvT) error) error {
	startedAt := time.Now()

	defer utils.StartProfiling()()

	hal.InitHAL()

	if caller.Valid() {
		utils.UFS.MountCallerFile(caller)
	}

	env, err := utils.InitCommandEnv(prefix, defaultCommand, os.Args[1:], startedAt)
	if err == nil {
		err = base.Recover(func() error {
			return scope(env)
		})
	}

	if err != nil {
		base.LogForwardln("")
		base.LogError(utils.LogCommand, "%v", err)
	}
	return err
}
