package nodejs

import "strings"

// Platform is an operating system in the Node.js distribution vocabulary.
type Platform int

const (
	PlatformUnknown Platform = iota
	AIX
	Linux
	OSX
	Win
)

func (p Platform) String() string {
	switch p {
	case AIX:
		return "aix"
	case Linux:
		return "linux"
	case OSX:
		return "osx"
	case Win:
		return "win"
	default:
		return ""
	}
}

// Arch is a CPU architecture in the Node.js distribution vocabulary.
type Arch int

const (
	ArchUnknown Arch = iota
	X86
	X64
	ARMv6l
	ARMv7l
	ARM64
	PPC64le
	S390x
)

var archNames = map[Arch]string{
	X86:     "x86",
	X64:     "x64",
	ARMv6l:  "armv6l",
	ARMv7l:  "armv7l",
	ARM64:   "arm64",
	PPC64le: "ppc64le",
	S390x:   "s390x",
}

func (a Arch) String() string { return archNames[a] }

// Target is a resolved distribution target. Unknown components are left out
// of the tag rather than rendered as empty strings.
type Target struct {
	Platform Platform
	Arch     Arch
	Musl     bool
}

// Tag renders the platform-arch[-musl] component of a distribution filename,
// skipping unresolved parts.
func (t Target) Tag() string {
	parts := make([]string, 0, 3)
	if t.Platform != PlatformUnknown {
		parts = append(parts, t.Platform.String())
	}
	if t.Arch != ArchUnknown {
		parts = append(parts, t.Arch.String())
	}
	if t.Musl {
		parts = append(parts, "musl")
	}
	return strings.Join(parts, "-")
}

// Known reports whether both the platform and the architecture resolved.
func (t Target) Known() bool {
	return t.Platform != PlatformUnknown && t.Arch != ArchUnknown
}

func (t Target) String() string { return t.Tag() }

// Resolve maps a host OS name (as reported by uname or runtime.GOOS) and a
// machine string to a distribution target. It never fails: unrecognised
// input leaves the corresponding component unknown.
func Resolve(osName, cpuArch string, muslX64 bool) Target {
	return Target{
		Platform: resolvePlatform(osName),
		Arch:     resolveArch(cpuArch),
		Musl:     muslX64,
	}
}

func resolvePlatform(osName string) Platform {
	name := strings.ToLower(strings.TrimSpace(osName))
	switch {
	case strings.HasPrefix(name, "linux"):
		return Linux
	case strings.HasPrefix(name, "darwin"):
		return OSX
	case strings.HasPrefix(name, "win"), strings.HasPrefix(name, "cygwin"):
		return Win
	case strings.HasPrefix(name, "aix"):
		return AIX
	}
	return PlatformUnknown
}

func resolveArch(cpuArch string) Arch {
	machine := strings.ToLower(strings.TrimSpace(cpuArch))
	for a, name := range archNames {
		if machine == name {
			return a
		}
	}
	switch {
	case machine == "x86_64", machine == "amd64":
		return X64
	case strings.HasPrefix(machine, "aarch64"),
		strings.HasPrefix(machine, "armv8"),
		strings.HasPrefix(machine, "arm64"):
		return ARM64
	case machine == "i686", machine == "i386", machine == "386":
		return X86
	case strings.HasPrefix(machine, "ppc64"):
		return PPC64le
	case strings.HasPrefix(machine, "s390x"):
		return S390x
	}
	return ArchUnknown
}
