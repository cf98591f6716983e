//go:build linux

package memory

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// readHostMemory sums /proc/meminfo fields. MemFree, Buffers, Cached and
// SwapFree count as free; SwapTotal is subtracted so used swap counts as
// used memory.
func readHostMemory() (hostMemory, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return hostMemory{}, err
	}
	defer f.Close()
	return parseMemInfo(f)
}

func parseMemInfo(r io.Reader) (hostMemory, error) {
	var hm hostMemory
	var free int64
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) == 0 {
			continue
		}
		kb, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		switch name {
		case "MemTotal":
			hm.total = uint64(kb) * 1024
		case "MemFree", "Buffers", "Cached", "SwapFree":
			free += kb * 1024
		case "SwapTotal":
			free -= kb * 1024
		}
	}
	if err := sc.Err(); err != nil {
		return hostMemory{}, err
	}
	if free > 0 {
		hm.free = uint64(free)
	}
	return hm, nil
}
