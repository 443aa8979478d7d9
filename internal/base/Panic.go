package base

import "fmt"

type PanicResult int32

const (
	PANIC_ABORT PanicResult = iota
	PANIC_HANDLED
	PANIC_REENTRANCY
)

var OnPanic func(error) PanicResult

func Panicf(msg string, args ...interface{}) {
	Panic(fmt.Errorf(msg, args...))
}

func Panic(err error) {
	result := PANIC_ABORT
	if OnPanic != nil {
		result = OnPanic(err)
	}

	switch result {
	case PANIC_ABORT:
		panic(fmt.Errorf("%v%v[PANIC]%v %w",
			ANSI_FG1_RED, ANSI_BLINK0, ANSI_RESET, err))
	case PANIC_HANDLED:
		LogError(LogGlobal, "handled panic: %v", err)
	case PANIC_REENTRANCY:
		panic(fmt.Errorf("panic reentrancy: %w", err))
	}
}

// Recover converts a panic raised inside scope into an error.
func Recover(scope func() error) (result error) {
	defer func() {
		if err := recover(); err != nil {
			var ok bool
			if result, ok = err.(error); !ok {
				result = fmt.Errorf("%v", err)
			}
		}
	}()
	result = scope()
	return
}
