package base

import "fmt"

/***************************************
 * Host Id
 ***************************************/

type HostId string

const (
	HOST_WINDOWS HostId = "WINDOWS"
	HOST_LINUX   HostId = "LINUX"
	HOST_DARWIN  HostId = "DARWIN"
)

func (id HostId) String() string {
	return (string)(id)
}

/***************************************
 * Host Platform
 ***************************************/

type HostPlatform struct {
	Id   HostId
	Name string
}

func (x HostPlatform) String() string {
	return fmt.Sprint(x.Id, " ", x.Name)
}

var gCurrentHost = &HostPlatform{Id: HOST_LINUX, Name: "unknown"}

func GetCurrentHost() *HostPlatform {
	return gCurrentHost
}
func SetCurrentHost(host *HostPlatform) {
	gCurrentHost = host
}

/***************************************
 * Interactive shell
 ***************************************/

var enableInteractiveShell bool = false

func EnableInteractiveShell() bool {
	return enableInteractiveShell
}
func SetEnableInteractiveShell(enabled bool) {
	enableInteractiveShell = enabled
}
