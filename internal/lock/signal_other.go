//go:build !unix

package lock

import "os"

func terminationSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
