//go:build !unix

package nodejs

import "runtime"

func machine() string {
	return goarchMachine(runtime.GOARCH)
}
