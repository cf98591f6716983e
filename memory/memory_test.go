package memory

import (
	"errors"
	"testing"
	"time"
)

const mib = 1024 * 1024

func TestBytesToFree(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		cached  uint64
		total   uint64
		free    uint64
		want    uint64
	}{
		{"low frees everything", ProfileLow, 300 * mib, 900 * mib, 800 * mib, 300 * mib},
		{"normal under third", ProfileNormal, 200 * mib, 900 * mib, 800 * mib, 0},
		{"normal over third", ProfileNormal, 400 * mib, 900 * mib, 800 * mib, 100 * mib},
		{"normal clip wins", ProfileNormal, 400 * mib, 900 * mib, 100 * mib, 150 * mib},
		{"aggressive plenty free", ProfileAggressive, 400 * mib, 900 * mib, 800 * mib, 0},
		{"aggressive tight", ProfileAggressive, 400 * mib, 900 * mib, 100 * mib, 150 * mib},
		{"greedy under limit", ProfileGreedy, 400 * mib, 900 * mib, 100 * mib, 0},
		{"greedy over limit", ProfileGreedy, 600 * mib, 900 * mib, 100 * mib, 75 * mib},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BytesToFree(c.profile, c.cached, c.total, c.free)
			if got != c.want {
				t.Fatalf("BytesToFree = %d, want %d", got, c.want)
			}
		})
	}
}

func TestProbeCachesTotalForever(t *testing.T) {
	reads := 0
	p := &Probe{
		read: func() (hostMemory, error) {
			reads++
			return hostMemory{total: 8 * 1024 * mib, free: 2 * 1024 * mib}, nil
		},
		now: time.Now,
	}
	if got := p.Total(); got != 8*1024*mib {
		t.Fatalf("total %d", got)
	}
	p.Total()
	p.Total()
	if reads != 1 {
		t.Fatalf("total read %d times, want 1", reads)
	}
}

func TestProbeFreeTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	reads := 0
	p := &Probe{
		read: func() (hostMemory, error) {
			reads++
			return hostMemory{total: 8 * 1024 * mib, free: uint64(reads) * mib}, nil
		},
		now: func() time.Time { return now },
	}
	if got := p.Free(); got != 1*mib {
		t.Fatalf("first free %d", got)
	}
	now = now.Add(time.Second)
	if got := p.Free(); got != 1*mib {
		t.Fatalf("cached free %d, want previous value", got)
	}
	now = now.Add(2 * time.Second)
	if got := p.Free(); got != 2*mib {
		t.Fatalf("refreshed free %d", got)
	}
	if reads != 2 {
		t.Fatalf("free read %d times, want 2", reads)
	}
}

func TestProbeFallbacks(t *testing.T) {
	p := &Probe{
		read: func() (hostMemory, error) { return hostMemory{}, errors.New("unsupported") },
		now:  time.Now,
	}
	if got := p.Total(); got != fallbackTotal {
		t.Fatalf("fallback total %d, want %d", got, uint64(fallbackTotal))
	}
	if got := p.Free(); got != 0 {
		t.Fatalf("fallback free %d, want 0", got)
	}
}
