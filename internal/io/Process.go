package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/poppolopoppo/faultllvm/internal/base"
	"github.com/poppolopoppo/faultllvm/utils"
)

var LogProcess = base.NewLogCategory("Process")

/***************************************
 * Process Options
 ***************************************/

type ProcessOutputFunc = func(line string) error

type ProcessOptions struct {
	Environment   ProcessEnvironment
	OnOutput      ProcessOutputFunc
	CaptureOutput bool
}

type ProcessOptionFunc func(*ProcessOptions)

func (x *ProcessOptions) Init(options ...ProcessOptionFunc) {
	x.Environment = NewProcessEnvironment()
	for _, it := range options {
		it(x)
	}
}

func OptionProcessExport(name string, values ...string) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.Environment.Append(name, values...)
	}
}
func OptionProcessOutput(onOutput ProcessOutputFunc) ProcessOptionFunc {
	return func(po *ProcessOptions) {
		po.OnOutput = onOutput
	}
}
func OptionProcessCaptureOutput(po *ProcessOptions) {
	po.CaptureOutput = true
}

/***************************************
 * RunProcess
 ***************************************/

type ProcessError struct {
	Executable utils.Filename
	Arguments  base.StringSet
	ExitCode   int
	Inner      error
}

func (x ProcessError) Error() string {
	return fmt.Sprintf("process %q %q exited with code %d: %v", x.Executable, x.Arguments.Join(" "), x.ExitCode, x.Inner)
}
func (x ProcessError) Unwrap() error {
	return x.Inner
}

func RunProcess(executable utils.Filename, arguments base.StringSet, userOptions ...ProcessOptionFunc) error {
	var options ProcessOptions
	options.Init(userOptions...)

	defer base.LogBenchmark(LogProcess, "Run(%q, %q)", executable, base.MakeStringer(func() string {
		return arguments.Join("\", \"")
	})).Close()

	err := runProcessVanilla(executable, arguments, &options)

	if exitCodeErr, ok := err.(*exec.ExitError); ok {
		err = ProcessError{
			Executable: executable,
			Arguments:  arguments,
			ExitCode:   exitCodeErr.ExitCode(),
			Inner:      err,
		}
	}
	return err
}

func runProcessVanilla(executable utils.Filename, arguments base.StringSet, options *ProcessOptions) (err error) {
	cmd := exec.Command(executable.String(), arguments...)
	cmd.Env = append(os.Environ(), options.Environment.Export()...)

	base.LogTrace(LogProcess, "run %v", cmd)

	if options.CaptureOutput {
		var stdout io.ReadCloser
		if stdout, err = cmd.StdoutPipe(); err != nil {
			return err
		}

		// stderr is kept apart: callers parse stdout
		stderr := bytes.Buffer{}
		cmd.Stderr = &stderr

		if err = cmd.Start(); err != nil {
			return err
		}

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

		for scanner.Scan() {
			line := scanner.Text()
			base.LogTrace(LogProcess, "%s: %s", executable.Basename, line)
			if options.OnOutput != nil {
				if er := options.OnOutput(line); er != nil {
					return drainProcess(cmd, stdout, er)
				}
			} else {
				base.LogForwardln(line)
			}
		}
		if er := scanner.Err(); er != nil {
			return drainProcess(cmd, stdout, fmt.Errorf("%s: reading output: %w", executable.Basename, er))
		}

		if err = cmd.Wait(); err != nil && stderr.Len() > 0 {
			base.LogVerbose(LogProcess, "%s: %s", executable.Basename, strings.TrimSpace(stderr.String()))
		}

	} else {
		outputForError := bytes.Buffer{}
		cmd.Stderr = &outputForError
		cmd.Stdout = &outputForError

		if err = cmd.Run(); err != nil {
			// print output if the command failed
			output := base.UnsafeStringFromBuffer(&outputForError)
			if options.OnOutput != nil {
				if er := options.OnOutput(output); er != nil {
					return er
				}
			} else {
				base.LogForward(output)
			}
		}
	}

	return
}

// drainProcess empties the pipe so the child can exit, then waits for it.
func drainProcess(cmd *exec.Cmd, stdout io.Reader, err error) error {
	io.Copy(io.Discard, stdout)
	cmd.Wait()
	return err
}

/***************************************
 * Process Environment
 ***************************************/

type EnvironmentDefinition struct {
	Name   string
	Values base.StringSet
}

func (x EnvironmentDefinition) String() string {
	if len(x.Values) > 0 {
		return x.Name + "=" + x.Values.Join(string(os.PathListSeparator))
	}
	return x.Name + "="
}

type ProcessEnvironment []EnvironmentDefinition

func NewProcessEnvironment() ProcessEnvironment {
	return ProcessEnvironment([]EnvironmentDefinition{})
}

func (x ProcessEnvironment) Export() []string {
	result := make([]string, len(x))
	for i, it := range x {
		result[i] = it.String()
	}
	return result
}
func (x ProcessEnvironment) IndexOf(name string) (int, bool) {
	base.AssertNotIn(name, "")
	for i, it := range x {
		if it.Name == name {
			return i, true
		}
	}
	return len(x), false
}
func (x *ProcessEnvironment) Append(name string, values ...string) {
	base.AssertNotIn(name, "")
	if i, ok := x.IndexOf(name); ok {
		(*x)[i].Values.Append(values...)
	} else {
		*x = append(*x, EnvironmentDefinition{
			Name:   name,
			Values: values,
		})
	}
}
