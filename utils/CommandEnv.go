package utils

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

/***************************************
 * Command Flags
 ***************************************/

type CommandFlags struct {
	Force          BoolVar
	DryRun         BoolVar
	Quiet          BoolVar
	Verbose        BoolVar
	Trace          BoolVar
	VeryVerbose    BoolVar
	Debug          BoolVar
	Timestamp      BoolVar
	Color          BoolVar
	Ide            BoolVar
	WarningAsError BoolVar
	LogAll         base.StringSet
	LogFile        Filename
	Sources        Directory
	Config         Filename
}

var GetCommandFlags = NewGlobalCommandParsableFlags("CommandFlags", "global command options", &CommandFlags{
	Force:          base.INHERITABLE_FALSE,
	DryRun:         base.INHERITABLE_FALSE,
	Quiet:          base.INHERITABLE_FALSE,
	Verbose:        base.INHERITABLE_FALSE,
	Trace:          base.INHERITABLE_FALSE,
	VeryVerbose:    base.INHERITABLE_FALSE,
	Debug:          base.INHERITABLE_FALSE,
	Timestamp:      base.INHERITABLE_FALSE,
	Color:          base.INHERITABLE_INHERIT,
	Ide:            base.INHERITABLE_FALSE,
	WarningAsError: base.INHERITABLE_FALSE,
})

func (flags *CommandFlags) Flags(cfv CommandFlagsVisitor) {
	cfv.Variable("f", "force instantiation even if up-to-date", &flags.Force)
	cfv.Variable("n", "dry run: log what would change without writing anything", &flags.DryRun)
	cfv.Persistent("q", "disable all messages", &flags.Quiet)
	cfv.Persistent("v", "turn on verbose mode", &flags.Verbose)
	cfv.Persistent("t", "print more informations about progress", &flags.Trace)
	cfv.Persistent("V", "turn on very verbose mode", &flags.VeryVerbose)
	cfv.Persistent("d", "turn on debug log", &flags.Debug)
	cfv.Persistent("T", "turn on timestamp logging", &flags.Timestamp)
	cfv.Persistent("Color", "control ansi color output in log messages", &flags.Color)
	cfv.Persistent("Ide", "set output to IDE mode (disable interactive shell)", &flags.Ide)
	cfv.Persistent("WX", "consider warnings as errors", &flags.WarningAsError)
	cfv.Persistent("LogAll", "force to output all messages for given log categories", &flags.LogAll)
	cfv.Persistent("LogFile", "output log to specified file (default: stdout)", &flags.LogFile)
	cfv.Persistent("Sources", "override the directory holding the adapter sources (default: the tools folder shipped with fault-llvm)", &flags.Sources)
	cfv.Variable("Config", "read default flag values from this json file (default: <root>/fault-llvm.json)", &flags.Config)
}
func (flags *CommandFlags) Apply() error {
	for _, category := range flags.LogAll {
		if err := base.SetLogCategoryLevel(category, base.LOG_ALL); err != nil {
			base.LogWarning(LogCommand, "-LogAll: %v", err)
		}
	}

	if flags.LogFile.Valid() {
		outp, err := os.Create(flags.LogFile.String())
		if err != nil {
			return fmt.Errorf("-LogFile: %w", err)
		}
		base.SetEnableInteractiveShell(false)
		base.SetEnableAnsiColor(false)
		base.GetLogger().SetWriter(outp)
	}

	base.GetLogger().SetShowTimestamp(flags.Timestamp.Get())

	if flags.Ide.Get() {
		base.SetEnableAnsiColor(false)
		base.SetEnableInteractiveShell(false)
	}

	if flags.Verbose.Get() {
		base.GetLogger().SetLevel(base.LOG_VERBOSE)
	}
	if flags.VeryVerbose.Get() {
		base.GetLogger().SetLevel(base.LOG_VERYVERBOSE)
	}
	if flags.Trace.Get() {
		base.GetLogger().SetLevel(base.LOG_TRACE)
	}
	if flags.Debug.Get() {
		base.GetLogger().SetLevel(base.LOG_DEBUG)
	}
	if flags.Quiet.Get() {
		base.GetLogger().SetLevel(base.LOG_ERROR)
	}
	if flags.WarningAsError.Get() {
		base.GetLogger().WarningAsError = true
	}

	if flags.Force.Get() {
		base.LogTrace(LogCommand, "instantiation will be forced due to '-f' command-line option")
	}
	if flags.DryRun.Get() {
		base.LogTrace(LogCommand, "nothing will be written due to '-n' command-line option")
	}

	if !flags.Color.IsInheritable() {
		base.SetEnableAnsiColor(flags.Color.Get())
	}

	if flags.Sources.Valid() {
		UFS.MountToolsDirectory(flags.Sources)
	}
	return nil
}

/***************************************
 * Process Info
 ***************************************/

type ProcessInfo struct {
	Path    string
	Version string
}

var GetProcessInfo = func() ProcessInfo {
	result := ProcessInfo{
		Path:    UFS.Executable.String(),
		Version: "devel",
	}
	if x, ok := debug.ReadBuildInfo(); ok && x.Main.Path != "" {
		result.Path = x.Main.Path
		if x.Main.Version != "" {
			result.Version = x.Main.Version
		}
	}
	return result
}

/***************************************
 * Command Env
 ***************************************/

type CommandEnvT struct {
	prefix         string
	defaultCommand string
	persistent     *persistentData
	startedAt      time.Time
	configPath     Filename
	commandLine    *CommandLine

	lastPanic atomic.Value
}

var CommandEnv *CommandEnvT

// InitCommandEnv parses the global flags of args, loads the config file and applies the flags.
// defaultCommand is run when the first remaining argument does not name a command.
func InitCommandEnv(prefix, defaultCommand string, args []string, startedAt time.Time) (*CommandEnvT, error) {
	CommandEnv = &CommandEnvT{
		prefix:         prefix,
		defaultCommand: defaultCommand,
		persistent:     NewPersistentMap(),
		startedAt:      startedAt,
	}

	base.OnPanic = CommandEnv.OnPanic

	CommandEnv.commandLine = NewCommandLine(CommandEnv.persistent, args)

	// -Config= must be known before the config file can provide defaults to the other flags
	flags := GetCommandFlags()
	for i := 0; ; i++ {
		arg, ok := CommandEnv.commandLine.PeekArg(i)
		if !ok || arg == COMMANDLINE_SEPARATOR {
			break
		}
		if ok, err := base.InheritableCommandLine("Config", arg, &flags.Config); err != nil {
			return CommandEnv, fmt.Errorf("-Config: %w", err)
		} else if ok {
			break
		}
	}

	if flags.Config.Valid() {
		CommandEnv.configPath = flags.Config
	} else {
		CommandEnv.configPath = UFS.Root.File(prefix + ".json")
	}
	if err := CommandEnv.persistent.LoadFile(CommandEnv.configPath); err != nil {
		return CommandEnv, err
	}

	if err := ParseGlobalFlags(CommandEnv.commandLine); err != nil {
		return CommandEnv, err
	}

	if err := flags.Apply(); err != nil {
		return CommandEnv, err
	}

	base.LogVerbose(LogCommand, "loaded config from %q", CommandEnv.configPath)
	base.LogVeryVerbose(LogCommand, "interactive shell: %v", base.EnableInteractiveShell())
	base.LogVerbose(LogCommand, "will load adapter sources from %q", UFS.Tools)
	return CommandEnv, nil
}

func (env *CommandEnvT) Prefix() string             { return env.prefix }
func (env *CommandEnvT) Persistent() PersistentData { return env.persistent }
func (env *CommandEnvT) StartedAt() time.Time       { return env.startedAt }

func (env *CommandEnvT) OnPanic(err error) base.PanicResult {
	if env.lastPanic.CompareAndSwap(nil, err) {
		return base.PANIC_ABORT
	}
	return base.PANIC_REENTRANCY // a fatal error was already reported
}

// findCommandName selects the command to run: the first argument when it names a command, otherwise the default one.
// A leading "--" always selects the default command, it is consumed later when the command parses its arguments.
func (env *CommandEnvT) findCommandName() (string, error) {
	if name, ok := env.commandLine.PeekArg(0); ok {
		if name == COMMANDLINE_SEPARATOR {
			if len(env.commandLine.args) == 1 {
				return "", fmt.Errorf("missing argument after %q, use `help` to learn about command usage", name)
			}
			return env.defaultCommand, nil
		}
		if _, err := FindCommand(name); err == nil {
			env.commandLine.ConsumeArg(0)
			return name, nil
		}
		if strings.HasPrefix(name, "-") {
			return "", fmt.Errorf("unknown global flag %q, use `help` to learn about command usage", name)
		}
	}
	if env.commandLine.Empty() {
		return "", fmt.Errorf("missing argument, use `help` to learn about command usage")
	}
	return env.defaultCommand, nil
}

func (env *CommandEnvT) Run() error {
	name, err := env.findCommandName()
	if err != nil {
		return err
	}

	cmd, err := FindCommand(name)
	if err != nil {
		return err
	}
	if err = cmd.Parse(env.commandLine); err != nil {
		return err
	}
	return cmd.Run()
}
