package base

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

/***************************************
 * Log level
 ***************************************/

type LogLevel int32

const (
	LOG_ALL LogLevel = iota
	LOG_DEBUG
	LOG_TRACE
	LOG_VERYVERBOSE
	LOG_VERBOSE
	LOG_INFO
	LOG_CLAIM
	LOG_WARNING
	LOG_ERROR
	LOG_FATAL
)

type logLevelDecoration struct {
	Header string
	Style  []AnsiCode
}

var logLevelDecorations = [...]logLevelDecoration{
	LOG_ALL:         {"", nil},
	LOG_DEBUG:       {"🐜 ", []AnsiCode{ANSI_FG0_MAGENTA, ANSI_ITALIC, ANSI_FAINT}},
	LOG_TRACE:       {"👣 ", []AnsiCode{ANSI_FG0_CYAN, ANSI_ITALIC, ANSI_FAINT}},
	LOG_VERYVERBOSE: {"👥 ", []AnsiCode{ANSI_FG1_MAGENTA, ANSI_ITALIC}},
	LOG_VERBOSE:     {"🗣️ ", []AnsiCode{ANSI_FG0_BLUE}},
	LOG_INFO:        {"🔹 ", []AnsiCode{ANSI_FG1_WHITE}},
	LOG_CLAIM:       {"❇️ ", []AnsiCode{ANSI_FG1_GREEN, ANSI_BOLD}},
	LOG_WARNING:     {"⚠️ ", []AnsiCode{ANSI_FG0_YELLOW}},
	LOG_ERROR:       {"❌ ", []AnsiCode{ANSI_FG1_RED, ANSI_BOLD}},
	LOG_FATAL:       {"💀 ", []AnsiCode{ANSI_FG1_WHITE, ANSI_BG0_RED, ANSI_BLINK0}},
}

func (x LogLevel) decoration() logLevelDecoration {
	if x < LOG_ALL || x > LOG_FATAL {
		UnexpectedValue(x)
	}
	return logLevelDecorations[x]
}

// Allows reports whether a message of the given level passes a threshold of x.
func (x LogLevel) Allows(level LogLevel) bool {
	return level >= x
}
func (x LogLevel) String() string {
	return strings.TrimSpace(x.decoration().Header)
}

/***************************************
 * Log category
 ***************************************/

// LogCategory tags messages with the component that emitted them.
// Level is a per-category threshold, LOG_FATAL unless -LogAll lowered it.
type LogCategory struct {
	Name  string
	Level LogLevel
	Color AnsiCode
}

var logCategories = struct {
	sync.Mutex
	byName map[string]*LogCategory
}{byName: map[string]*LogCategory{}}

func NewLogCategory(name string) *LogCategory {
	logCategories.Lock()
	defer logCategories.Unlock()
	if category, ok := logCategories.byName[name]; ok {
		return category
	}

	h := fnv.New64a()
	h.Write(UnsafeBytesFromString(name))
	category := &LogCategory{
		Name:  name,
		Level: LOG_FATAL,
		Color: AnsiColorFromHash(h.Sum64()),
	}
	logCategories.byName[name] = category
	return category
}

// SetLogCategoryLevel lowers (or raises) the threshold of a single category.
func SetLogCategoryLevel(name string, level LogLevel) error {
	logCategories.Lock()
	defer logCategories.Unlock()
	category, ok := logCategories.byName[name]
	if !ok {
		known := SortedKeys(logCategories.byName)
		return fmt.Errorf("unknown log category %q, expected one of %s", name, strings.Join(known, ", "))
	}
	category.Level = level
	return nil
}

/***************************************
 * Logger
 ***************************************/

type Logger struct {
	Level          LogLevel
	Timestamp      bool
	WarningAsError bool

	barrier sync.Mutex
	writer  io.Writer
}

var gLogger = NewLogger(os.Stdout)

func GetLogger() *Logger { return gLogger }

func NewLogger(w io.Writer) *Logger {
	return &Logger{Level: LOG_INFO, writer: w}
}

// SetLevel changes the global threshold and returns the previous one.
func (x *Logger) SetLevel(level LogLevel) (previous LogLevel) {
	previous, x.Level = x.Level, level
	if x.Level > LOG_FATAL {
		x.Level = LOG_FATAL
	}
	return
}
func (x *Logger) SetShowTimestamp(enabled bool) {
	x.Timestamp = enabled
}
func (x *Logger) SetWriter(w io.Writer) {
	Assert(func() bool { return w != nil })
	x.barrier.Lock()
	defer x.barrier.Unlock()
	x.writer = w
}

func (x *Logger) IsVisible(category *LogCategory, level LogLevel) bool {
	return x.Level.Allows(level) || (category != nil && category.Level.Allows(level))
}

func (x *Logger) Log(category *LogCategory, level LogLevel, msg string, args ...interface{}) {
	if level == LOG_WARNING && x.WarningAsError {
		level = LOG_ERROR
	}
	if !x.IsVisible(category, level) {
		return
	}

	deco := level.decoration()
	line := strings.Builder{}
	if x.Timestamp {
		fmt.Fprintf(&line, "%v%010.5f |%v  ", ANSI_FG1_BLACK, Elapsed().Seconds(), ANSI_RESET)
	}
	for _, style := range deco.Style {
		line.WriteString(style.String())
	}
	line.WriteString(deco.Header)
	fmt.Fprintf(&line, " %v%v%s%v: ", ANSI_RESET, category.Color, category.Name, ANSI_RESET)
	for _, style := range deco.Style {
		line.WriteString(style.String())
	}
	fmt.Fprintf(&line, msg, args...)
	line.WriteString(ANSI_RESET.String())
	line.WriteByte('\n')

	x.Forward(line.String())
}

// Forward writes msg as is, without decoration: used for command payloads such as json output.
func (x *Logger) Forward(msg ...string) {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	for _, it := range msg {
		io.WriteString(x.writer, it)
	}
}

/***************************************
 * Logger API
 ***************************************/

var LogGlobal = NewLogCategory("Global")

func LogDebug(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_DEBUG, msg, args...)
}
func LogTrace(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_TRACE, msg, args...)
}
func LogVeryVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERYVERBOSE, msg, args...)
}
func LogVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERBOSE, msg, args...)
}
func LogInfo(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_INFO, msg, args...)
}
func LogClaim(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_CLAIM, msg, args...)
}
func LogWarning(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_WARNING, msg, args...)
}
func LogError(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_ERROR, msg, args...)
}

func LogPanic(category *LogCategory, msg string, args ...interface{}) {
	LogPanicErr(category, fmt.Errorf(msg, args...))
}
func LogPanicErr(category *LogCategory, err error) {
	LogError(category, "💀 panic: caught error %v", err)
	Panic(err)
}
func LogPanicIfFailed(category *LogCategory, err error) {
	if err != nil {
		LogPanicErr(category, err)
	}
}

func LogForward(msg ...string) {
	gLogger.Forward(msg...)
}
func LogForwardln(msg ...string) {
	if n := len(msg); n == 0 || !strings.HasSuffix(msg[n-1], "\n") {
		msg = append(msg, "\n")
	}
	gLogger.Forward(msg...)
}

func IsLogLevelActive(level LogLevel) bool {
	return gLogger.Level.Allows(level)
}

/***************************************
 * Benchmark
 ***************************************/

var startedAt = time.Now()

func Elapsed() time.Duration {
	return time.Since(startedAt)
}

type BenchmarkLog struct {
	category  *LogCategory
	message   string
	startedAt time.Duration
}

// LogBenchmark measures the scope closed by BenchmarkLog.Close, reported in very verbose mode.
func LogBenchmark(category *LogCategory, msg string, args ...interface{}) BenchmarkLog {
	return BenchmarkLog{
		category:  category,
		message:   fmt.Sprintf(msg, args...),
		startedAt: Elapsed(),
	}
}
func (x BenchmarkLog) Close() time.Duration {
	duration := Elapsed() - x.startedAt
	LogVeryVerbose(x.category, "benchmark: %10v   %s", duration, x.message)
	return duration
}

