// Package memory provides the cache aggressiveness profiles and a
// platform-abstracted probe for total and free host RAM.
package memory

import (
	"sync"
	"time"
)

// Profile selects how aggressively the pixmap cache holds on to memory.
type Profile int

const (
	ProfileLow Profile = iota
	ProfileNormal
	ProfileAggressive
	ProfileGreedy
)

func (p Profile) String() string {
	switch p {
	case ProfileLow:
		return "low"
	case ProfileNormal:
		return "normal"
	case ProfileAggressive:
		return "aggressive"
	case ProfileGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// BytesToFree computes the eviction target for the given profile.
// cached is the sum of all live allocation descriptors, total and free the
// host RAM figures.
func BytesToFree(p Profile, cached, total, free uint64) uint64 {
	var target, clip uint64
	switch p {
	case ProfileLow:
		target = cached
	case ProfileNormal:
		third := total / 3
		if cached > third {
			target = cached - third
		}
		if cached > free {
			clip = (cached - free) / 2
		}
	case ProfileAggressive:
		if cached > free {
			clip = (cached - free) / 2
		}
	case ProfileGreedy:
		limit := free
		if half := total / 2; half > limit {
			limit = half
		}
		if cached > limit {
			clip = (cached - limit) / 2
		}
	}
	if clip > target {
		target = clip
	}
	return target
}

const (
	// fallbackTotal is reported when the platform exposes no memory
	// statistics; it forces Low-profile behavior.
	fallbackTotal = 128 * 1024 * 1024

	freeCacheTTL = 2 * time.Second
)

// Probe reads host memory counters. Total RAM is cached forever, free RAM
// for two seconds; both reads fall back to conservative values when the
// platform offers no statistics.
type Probe struct {
	mu     sync.Mutex
	read   func() (hostMemory, error)
	now    func() time.Time
	total  uint64
	free   uint64
	freeAt time.Time
}

type hostMemory struct {
	total uint64
	free  uint64
}

// NewProbe returns a probe backed by the platform memory reader.
func NewProbe() *Probe {
	return &Probe{read: readHostMemory, now: time.Now}
}

// Total returns total host RAM in bytes.
func (p *Probe) Total() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.total != 0 {
		return p.total
	}
	hm, err := p.read()
	if err != nil || hm.total == 0 {
		p.total = fallbackTotal
	} else {
		p.total = hm.total
	}
	return p.total
}

// Free returns currently free host RAM in bytes. Filesystem caches and
// buffers count as free, used swap as used.
func (p *Probe) Free() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	if !p.freeAt.IsZero() && now.Sub(p.freeAt) <= freeCacheTTL {
		return p.free
	}
	hm, err := p.read()
	if err != nil {
		return 0
	}
	p.free = hm.free
	p.freeAt = now
	return p.free
}
