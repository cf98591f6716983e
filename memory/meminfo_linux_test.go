//go:build linux

package memory

import (
	"strings"
	"testing"
)

func TestParseMemInfo(t *testing.T) {
	const sample = `MemTotal:        8000000 kB
MemFree:         1000000 kB
Buffers:          200000 kB
Cached:           800000 kB
SwapTotal:       2000000 kB
SwapFree:        1500000 kB
Dirty:               120 kB
`
	hm, err := parseMemInfo(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := uint64(8000000) * 1024; hm.total != want {
		t.Errorf("total %d, want %d", hm.total, want)
	}
	// free + buffers + cached + swapFree - swapTotal
	if want := uint64(1000000+200000+800000+1500000-2000000) * 1024; hm.free != want {
		t.Errorf("free %d, want %d", hm.free, want)
	}
}

func TestParseMemInfoSwapHeavy(t *testing.T) {
	// More swap in use than RAM free: free clamps at zero instead of
	// underflowing.
	const sample = `MemTotal:        8000000 kB
MemFree:           10000 kB
SwapTotal:       4000000 kB
SwapFree:          20000 kB
`
	hm, err := parseMemInfo(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if hm.free != 0 {
		t.Errorf("free %d, want 0", hm.free)
	}
}
