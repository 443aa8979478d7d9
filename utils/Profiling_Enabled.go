//go:build faultllvm_profiling

package utils

import (
	"strings"

	"github.com/pkg/profile"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

const PROFILING_ENABLED = true

var LogProfiling = base.NewLogCategory("Profiling")

/***************************************
 * Profiling Mode
 ***************************************/

type ProfilingMode byte

const (
	PROFILING_CPU ProfilingMode = iota
	PROFILING_MEMORY
	PROFILING_BLOCK
	PROFILING_MUTEX
	PROFILING_TRACE
)

func (x ProfilingMode) Mode() func(*profile.Profile) {
	switch x {
	case PROFILING_CPU:
		return profile.CPUProfile
	case PROFILING_MEMORY:
		return profile.MemProfile
	case PROFILING_BLOCK:
		return profile.BlockProfile
	case PROFILING_MUTEX:
		return profile.MutexProfile
	case PROFILING_TRACE:
		return profile.TraceProfile
	default:
		base.UnexpectedValue(x)
		return nil
	}
}
func (x ProfilingMode) String() string {
	switch x {
	case PROFILING_CPU:
		return "CPU"
	case PROFILING_MEMORY:
		return "MEM"
	case PROFILING_BLOCK:
		return "BLOCK"
	case PROFILING_MUTEX:
		return "MUTEX"
	case PROFILING_TRACE:
		return "TRACE"
	default:
		base.UnexpectedValue(x)
		return ""
	}
}
func (x *ProfilingMode) Set(in string) (err error) {
	switch strings.ToUpper(in) {
	case PROFILING_CPU.String():
		*x = PROFILING_CPU
	case PROFILING_MEMORY.String():
		*x = PROFILING_MEMORY
	case PROFILING_BLOCK.String():
		*x = PROFILING_BLOCK
	case PROFILING_MUTEX.String():
		*x = PROFILING_MUTEX
	case PROFILING_TRACE.String():
		*x = PROFILING_TRACE
	default:
		err = base.MakeUnexpectedValueError(x, in)
	}
	return err
}

/***************************************
 * Profiling flags
 ***************************************/

type ProfilingFlags struct {
	Profiling ProfilingMode
}

var GetProfilingFlags = NewGlobalCommandParsableFlags("ProfilingFlags", "profiling options", &ProfilingFlags{
	Profiling: PROFILING_CPU,
})

func (flags *ProfilingFlags) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("Profiling", "set profiling mode (CPU|MEM|BLOCK|MUTEX|TRACE)", &flags.Profiling)
}

/***************************************
 * Profiler
 ***************************************/

func StartProfiling() func() {
	profiling := GetProfilingFlags().Profiling
	base.LogWarning(LogProfiling, "use %v profiling mode", profiling)

	profiler := profile.Start(
		profiling.Mode(),
		profile.NoShutdownHook,
		profile.Quiet,
		profile.ProfilePath("."))
	return profiler.Stop
}
