//go:build linux

package hal

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

var LogHAL = base.NewLogCategory("HAL")

func InitHAL() {
	var uname unix.Utsname
	name := "Linux"
	if err := unix.Uname(&uname); err == nil {
		name = unix.ByteSliceToString(uname.Release[:])
	} else {
		base.LogWarning(LogHAL, "uname: %v", err)
	}
	base.SetCurrentHost(&base.HostPlatform{
		Id:   base.HOST_LINUX,
		Name: name,
	})

	interactive := isTty() && isInteractiveShell()
	base.SetEnableInteractiveShell(interactive)
	base.SetEnableAnsiColor(interactive)
}

// ExecutableName returns the on-disk name of an executable for the current host.
func ExecutableName(name string) string {
	return name
}

func isTty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

func isInteractiveShell() bool {
	term := os.Getenv("TERM")
	switch term {
	case "xterm", "alacritty", "screen", "tmux":
		return true
	default:
		return strings.HasPrefix(term, "xterm-") || strings.HasPrefix(term, "tmux-")
	}
}
