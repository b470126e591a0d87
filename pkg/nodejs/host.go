package nodejs

import (
	"os"
	"runtime"
)

// muslLoader is the dynamic loader installed by musl-based distributions
// such as Alpine on x86-64.
const muslLoader = "/lib/ld-musl-x86_64.so.1"

// Host describes the machine the bootstrapper runs on.
type Host struct {
	OS      string
	Machine string
	MuslX64 bool
}

// Target resolves the host into a distribution target.
func (h Host) Target() Target {
	return Resolve(h.OS, h.Machine, h.MuslX64)
}

// DetectHost inspects the running process and the local filesystem.
func DetectHost() Host {
	h := Host{OS: runtime.GOOS, Machine: machine()}
	h.MuslX64 = detectMuslX64(h.OS, h.Machine, fileExists)
	return h
}

func detectMuslX64(osName, machine string, exists func(string) bool) bool {
	if resolvePlatform(osName) != Linux || resolveArch(machine) != X64 {
		return false
	}
	return exists(muslLoader)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
