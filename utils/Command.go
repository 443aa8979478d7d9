package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

var LogCommand = base.NewLogCategory("Command")

// COMMANDLINE_SEPARATOR ends flag parsing: every following argument is positional.
const COMMANDLINE_SEPARATOR = "--"

/***************************************
 * CommandLine
 ***************************************/

// CommandLine holds the arguments not consumed yet, plus the config file providing flag defaults.
type CommandLine struct {
	args []string
	PersistentData
}

func NewCommandLine(persistent PersistentData, args []string) *CommandLine {
	base.LogTrace(LogCommand, "process arguments %q", args)
	return &CommandLine{
		args:           base.CopySlice(args...),
		PersistentData: persistent,
	}
}

func (x *CommandLine) String() string { return strings.Join(x.args, " ") }
func (x *CommandLine) Empty() bool    { return len(x.args) == 0 }

func (x *CommandLine) PeekArg(i int) (string, bool) {
	if i < len(x.args) {
		return x.args[i], true
	}
	return "", false
}
func (x *CommandLine) ConsumeArg(i int) (string, error) {
	if i >= len(x.args) {
		return "", fmt.Errorf("missing argument(s)")
	}
	consumed := x.args[i]
	x.args = append(x.args[:i], x.args[i+1:]...)
	return consumed, nil
}

// flagArgs returns the indices of the arguments found before COMMANDLINE_SEPARATOR.
func (x *CommandLine) flagArgs() int {
	for i, it := range x.args {
		if it == COMMANDLINE_SEPARATOR {
			return i
		}
	}
	return len(x.args)
}

/***************************************
 * Flags
 ***************************************/

type CommandFlagsVisitor interface {
	// Persistent flags can also be given a default value by the config file.
	Persistent(name, usage string, value PersistentVar)
	// Variable flags are only read from the command line.
	Variable(name, usage string, value PersistentVar)
}

type CommandParsableFlags interface {
	Flags(CommandFlagsVisitor)
}

type CommandLinable interface {
	CommandLine(name, input string) (bool, error)
}

type commandFlag struct {
	Name, Usage string
	Value       PersistentVar
	Persistent  bool
}

// commandFlagSet is a named group of flags, the name is also the config file object holding their defaults.
type commandFlagSet struct {
	Name, Description string
	Flags             []commandFlag
}

func (x *commandFlagSet) Persistent(name, usage string, value PersistentVar) {
	x.add(commandFlag{Name: name, Usage: usage, Value: value, Persistent: true})
}
func (x *commandFlagSet) Variable(name, usage string, value PersistentVar) {
	x.add(commandFlag{Name: name, Usage: usage, Value: value})
}
func (x *commandFlagSet) add(flag commandFlag) {
	base.Assert(func() bool { return len(flag.Name) > 0 && len(flag.Usage) > 0 })
	x.Flags = append(x.Flags, flag)
}

func newCommandParsableFlags(name, description string, value CommandParsableFlags) *commandFlagSet {
	set := &commandFlagSet{Name: name, Description: description}
	value.Flags(set)
	return set
}

func (x *commandFlagSet) Parse(cl *CommandLine) error {
	for _, flag := range x.Flags {
		if !flag.Persistent {
			continue
		}
		if err := cl.LoadData(x.Name, flag.Name, flag.Value); err != nil {
			base.LogDebug(LogCommand, "config %s.%s: %v", x.Name, flag.Name, err)
		}
	}

	for _, flag := range x.Flags {
		for i := 0; i < cl.flagArgs(); {
			parsed, err := parseCommandFlag(flag, cl.args[i])
			if err != nil {
				return fmt.Errorf("-%s: %w", flag.Name, err)
			}
			if parsed {
				cl.ConsumeArg(i)
			} else {
				i++
			}
		}
	}
	return nil
}

func parseCommandFlag(flag commandFlag, arg string) (bool, error) {
	if linable, ok := flag.Value.(CommandLinable); ok {
		return linable.CommandLine(flag.Name, arg)
	}
	return base.InheritableCommandLine(flag.Name, arg, flag.Value)
}

func (x *commandFlagSet) Help(w *StructuredFile) {
	w.Println("%v%s%v", base.ANSI_FG0_BLUE, x.Description, base.ANSI_RESET)
	w.ScopeIndent(func() {
		for _, flag := range x.Flags {
			color := base.ANSI_FG0_CYAN
			if flag.Persistent {
				color = base.ANSI_FG1_MAGENTA
			}
			w.Print("%v%v-%s%v", base.ANSI_ITALIC, color, flag.Name, base.ANSI_RESET)
			w.Align(20)
			w.Print("%v%v%v", base.ANSI_FG1_YELLOW, flag.Value, base.ANSI_RESET)
			w.Align(40)
			w.Println("%v%s%v", base.ANSI_FAINT, flag.Usage, base.ANSI_RESET)
		}
	})
}

var globalFlagSets []*commandFlagSet

// NewGlobalCommandParsableFlags registers flags parsed before any command, from the whole command line.
func NewGlobalCommandParsableFlags[T any, P interface {
	*T
	CommandParsableFlags
}](name, description string, flags *T) func() P {
	globalFlagSets = append(globalFlagSets, newCommandParsableFlags(name, description, P(flags)))
	return func() P { return flags }
}

func ParseGlobalFlags(cl *CommandLine) error {
	for _, set := range globalFlagSets {
		if err := set.Parse(cl); err != nil {
			return err
		}
	}
	return nil
}

/***************************************
 * Positional arguments
 ***************************************/

type commandArgument struct {
	Name, Description string
	Optional          bool
	Value             PersistentVar
	initial           string
}

func (x *commandArgument) Parse(cl *CommandLine) error {
	arg, err := cl.ConsumeArg(0)
	switch {
	case err == nil:
		return x.Value.Set(arg)
	case x.Optional:
		return x.Value.Set(x.initial)
	default:
		return fmt.Errorf("%s: %w", x.Name, err)
	}
}
func (x *commandArgument) Format() string {
	if x.Optional {
		return fmt.Sprint(base.ANSI_ITALIC, base.ANSI_FG0_YELLOW, base.ANSI_FAINT, "[", x.Name, "]", base.ANSI_RESET)
	}
	return fmt.Sprint(base.ANSI_ITALIC, base.ANSI_FG0_YELLOW, "<", x.Name, ">", base.ANSI_RESET)
}

/***************************************
 * CommandItem
 ***************************************/

type CommandDetails struct {
	Category, Name string
	Description    string
	Notes          string
}

type CommandItem interface {
	Details() CommandDetails
	Parse(*CommandLine) error
	Run() error
	Usage() string
	Help(*StructuredFile)
	fmt.Stringer
}

// CommandContext is given to commands while they declare their arguments and when they run.
type CommandContext interface {
	Details() CommandDetails
	Options(...CommandOptionFunc)
}

type CommandDelegate = func(CommandContext) error

type commandItem struct {
	CommandDetails

	flagSets  []*commandFlagSet
	arguments []*commandArgument
	run       CommandDelegate
}

func (x *commandItem) Details() CommandDetails { return x.CommandDetails }
func (x *commandItem) String() string          { return x.Category + "/" + x.Name }

func (x *commandItem) Options(options ...CommandOptionFunc) {
	for _, opt := range options {
		opt(x)
	}
}

// Parse fills the command flags and then its positional arguments, every argument must be used.
func (x *commandItem) Parse(cl *CommandLine) error {
	for _, set := range x.flagSets {
		if err := set.Parse(cl); err != nil {
			return err
		}
	}

	var unknownFlags []string
	for i := 0; i < len(cl.args); {
		arg := cl.args[i]
		if arg == COMMANDLINE_SEPARATOR {
			cl.ConsumeArg(i)
			break
		}
		if len(arg) > 1 && arg[0] == '-' {
			cl.ConsumeArg(i)
			unknownFlags = append(unknownFlags, arg)
			continue
		}
		i++
	}
	if len(unknownFlags) > 0 {
		base.LogWarning(LogCommand, "%s: ignoring unknown flags %q", x.Name, unknownFlags)
	}

	for _, arg := range x.arguments {
		if err := arg.Parse(cl); err != nil {
			return err
		}
	}

	if !cl.Empty() {
		return fmt.Errorf("unused command arguments: %q", cl.String())
	}
	return nil
}

type commandError struct {
	cmd   *commandItem
	inner error
}

func (x commandError) Error() string {
	return fmt.Sprintf("command %q failed with:\n\t%v", x.cmd.Name, x.inner)
}
func (x commandError) Unwrap() error {
	return x.inner
}

func (x *commandItem) Run() error {
	if x.run == nil {
		return nil
	}
	base.LogTrace(LogCommand, "run command %q", x)
	if err := x.run(x); err != nil {
		return commandError{cmd: x, inner: err}
	}
	return nil
}

func (x *commandItem) Usage() string {
	usage := fmt.Sprint(base.ANSI_UNDERLINE, base.ANSI_FG1_GREEN, x.Name, base.ANSI_RESET)
	for _, arg := range x.arguments {
		usage += " " + arg.Format()
	}
	return usage
}
func (x *commandItem) Help(w *StructuredFile) {
	if w.Minify() {
		w.Println(" %v%-12s%v %s", base.ANSI_FG1_GREEN, x.Name, base.ANSI_RESET, x.Description)
		return
	}

	w.Println("%s", x.Usage())
	w.ScopeIndent(func() {
		w.Println("%s", x.Description)
		if len(x.Notes) > 0 {
			w.Println("%v%s%v", base.ANSI_FAINT, x.Notes, base.ANSI_RESET)
		}
		for _, arg := range x.arguments {
			w.Print("%s", arg.Format())
			w.Align(24)
			w.Println("%v%s%v", base.ANSI_FG0_BLUE, arg.Description, base.ANSI_RESET)
		}
		for _, set := range x.flagSets {
			set.Help(w)
		}
	})
}

/***************************************
 * Command options
 ***************************************/

type CommandOptionFunc func(*commandItem)

// OptionCommandConsumeArg declares a mandatory positional argument, in declaration order.
func OptionCommandConsumeArg(name, description string, value PersistentVar) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.arguments = append(ci.arguments, &commandArgument{Name: name, Description: description, Value: value})
	}
}

// OptionCommandOptionalArg declares a trailing positional argument, value is reset when it is omitted.
func OptionCommandOptionalArg(name, description string, value PersistentVar) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.arguments = append(ci.arguments, &commandArgument{
			Name:        name,
			Description: description,
			Optional:    true,
			Value:       value,
			initial:     value.String(),
		})
	}
}

func OptionCommandParsableFlags(name, description string, value CommandParsableFlags) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.flagSets = append(ci.flagSets, newCommandParsableFlags(name, description, value))
	}
}
func OptionCommandRun(e CommandDelegate) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.run = e
	}
}
func OptionCommandNotes(format string, args ...interface{}) CommandOptionFunc {
	return func(ci *commandItem) {
		ci.Notes += fmt.Sprintf(format, args...)
	}
}

/***************************************
 * Command registry
 ***************************************/

var allCommands = map[string]*commandItem{}

type Commandable interface {
	Init(CommandContext) error
	Run(CommandContext) error
}

// NewCommandable registers cmd under name: Init declares its arguments, Run executes it.
func NewCommandable[T any, P interface {
	*T
	Commandable
}](category, name, description string, cmd *T) CommandItem {
	key := strings.ToUpper(name)
	if _, ok := allCommands[key]; ok {
		base.LogPanic(LogCommand, "command %q already registered", name)
	}

	item := &commandItem{
		CommandDetails: CommandDetails{
			Category:    category,
			Name:        name,
			Description: description,
		},
		run: P(cmd).Run,
	}
	base.LogPanicIfFailed(LogCommand, P(cmd).Init(item))

	allCommands[key] = item
	return item
}

func GetAllCommands() []CommandItem {
	cmds := make([]*commandItem, 0, len(allCommands))
	for _, it := range allCommands {
		cmds = append(cmds, it)
	}
	sort.Slice(cmds, func(i, j int) bool {
		if cmds[i].Category != cmds[j].Category {
			return cmds[i].Category < cmds[j].Category
		}
		return cmds[i].Name < cmds[j].Name
	})
	return base.Map(func(it *commandItem) CommandItem { return it }, cmds...)
}

// FindCommand looks up a command by name, ignoring case.
func FindCommand(name string) (CommandItem, error) {
	if cmd, found := allCommands[strings.ToUpper(name)]; found {
		return cmd, nil
	}
	return nil, fmt.Errorf("unknown command %q", name)
}

/***************************************
 * Help
 ***************************************/

func PrintCommandHelp(w io.Writer, detailed bool) error {
	f := NewStructuredFile(w, "  ", !detailed)

	f.Println("%v%s%v  v.%s", base.ANSI_FG1_WHITE, CommandEnv.Prefix(), base.ANSI_RESET, GetProcessInfo().Version)
	f.Println("instantiate the llvm adapter factors into a target project")
	f.Println("")
	f.Println("usage: %s [global flags] [--] <target> <llvm-config>", CommandEnv.Prefix())
	f.Println("       %s [global flags] <command> [arguments]", CommandEnv.Prefix())
	f.Println("a target named after a command must follow %q, or be given to the %q command",
		COMMANDLINE_SEPARATOR, CommandEnv.defaultCommand)

	section := func(title string) {
		f.Println("")
		f.Print("%v%v", base.ANSI_FG1_MAGENTA, base.ANSI_FAINT)
		f.Pad(30, "-")
		f.Print(" %s ", title)
		f.Pad(60, "-")
		f.Println("%v", base.ANSI_RESET)
	}

	category := ""
	for _, cmd := range GetAllCommands() {
		if details := cmd.Details(); details.Category != category {
			category = details.Category
			section(category)
		}
		f.ScopeIndent(func() { cmd.Help(f) })
	}

	section("Global")
	f.ScopeIndent(func() {
		for _, set := range globalFlagSets {
			set.Help(f)
		}
	})

	f.LineBreak()
	return f.Err()
}

type HelpCommand struct {
	Command StringVar
}

var CommandHelp = NewCommandable("Misc", "help", "print help about command usage", &HelpCommand{})

func (x *HelpCommand) Init(cc CommandContext) error {
	cc.Options(OptionCommandOptionalArg("command_name", "print the usage of this command only", &x.Command))
	return nil
}
func (x *HelpCommand) Run(cc CommandContext) error {
	if x.Command.Empty() {
		return PrintCommandHelp(os.Stdout, base.IsLogLevelActive(base.LOG_VERBOSE))
	}

	cmd, err := FindCommand(x.Command.Get())
	if err != nil {
		return err
	}

	f := NewStructuredFile(os.Stdout, "  ", false)
	cmd.Help(f)
	f.LineBreak()
	return f.Err()
}
