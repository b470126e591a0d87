package nodejs

// goarchMachine translates a GOARCH value into the machine string uname
// would report, for platforms without uname(2) and as a fallback.
func goarchMachine(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "i686"
	case "arm64":
		return "aarch64"
	case "arm":
		return "armv7l"
	case "ppc64le", "ppc64":
		return "ppc64le"
	case "s390x":
		return "s390x"
	}
	return goarch
}
