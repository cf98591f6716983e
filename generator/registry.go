package generator

import "sort"

// Entry describes one registered generator factory for a MIME type.
type Entry struct {
	Name     string
	MIME     string
	Priority int
	New      func() Generator
}

// Registry maps MIME types to an ordered list of candidate generators.
// Plugin discovery itself is external; hosts populate the registry and
// the core consumes it.
type Registry struct {
	entries []Entry
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Register(e Entry) {
	r.entries = append(r.entries, e)
}

// CandidatesFor returns the entries matching the MIME type, highest
// priority first. Registration order breaks ties.
func (r *Registry) CandidatesFor(mime string) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.MIME == mime {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}
