//go:build windows

package hal

import (
	"fmt"
	"os"
	"syscall"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

var LogHAL = base.NewLogCategory("HAL")

func osVersion() string {
	v, err := syscall.GetVersion()
	if err != nil {
		return "0.0"
	}
	major := uint8(v)
	minor := uint8(v >> 8)
	build := uint16(v >> 16)
	return fmt.Sprintf("%d.%d build %d", major, minor, build)
}

func setConsoleMode() bool {
	stdout := syscall.Handle(os.Stdout.Fd())

	var originalMode uint32
	if err := syscall.GetConsoleMode(stdout, &originalMode); err != nil {
		return false
	}
	originalMode |= 0x0004 // ENABLE_VIRTUAL_TERMINAL_PROCESSING

	setConsoleMode := syscall.MustLoadDLL("kernel32").MustFindProc("SetConsoleMode")
	ret, _, err := setConsoleMode.Call(uintptr(stdout), uintptr(originalMode))

	if ret == 1 {
		return true
	}

	base.LogVerbose(LogHAL, "failed to set console mode with %v", err)
	return false
}

func InitHAL() {
	base.SetCurrentHost(&base.HostPlatform{
		Id:   base.HOST_WINDOWS,
		Name: "Windows " + osVersion(),
	})

	interactive := setConsoleMode()
	base.SetEnableInteractiveShell(interactive)
	base.SetEnableAnsiColor(interactive)
}

func ExecutableName(name string) string {
	return name + ".exe"
}
