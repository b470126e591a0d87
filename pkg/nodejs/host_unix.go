//go:build unix

package nodejs

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// machine returns the kernel's machine hardware name (uname -m).
func machine() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return goarchMachine(runtime.GOARCH)
	}
	if m := unix.ByteSliceToString(u.Machine[:]); m != "" {
		return m
	}
	return goarchMachine(runtime.GOARCH)
}
