//go:build !linux

package memory

import "errors"

// readHostMemory has no implementation on this platform; the probe falls
// back to 128 MiB total and 0 free, which forces Low-profile behavior.
func readHostMemory() (hostMemory, error) {
	return hostMemory{}, errors.New("memory: no host statistics on this platform")
}
