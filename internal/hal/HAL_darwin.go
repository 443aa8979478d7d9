//go:build darwin

package hal

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/poppolopoppo/faultllvm/internal/base"
)

var LogHAL = base.NewLogCategory("HAL")

func InitHAL() {
	name := "Darwin"
	if release, err := unix.Sysctl("kern.osrelease"); err == nil {
		name = release
	} else {
		base.LogWarning(LogHAL, "sysctl: %v", err)
	}
	base.SetCurrentHost(&base.HostPlatform{
		Id:   base.HOST_DARWIN,
		Name: name,
	})

	_, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	base.SetEnableInteractiveShell(err == nil)
	base.SetEnableAnsiColor(err == nil)
}

func ExecutableName(name string) string {
	return name
}
