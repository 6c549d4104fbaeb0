package graph

// EntityRegistry tracks which entity names have already been emitted
// during a single merge call. Dedup is exact-match on the name string:
// no case folding, no whitespace or diacritic normalization. A person
// and a company sharing a name collide, and the later one is dropped.
//
// The registry lives for one merge call and is never shared across runs.
type EntityRegistry struct {
	seen map[string]struct{}
}

func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{seen: make(map[string]struct{})}
}

// Add inserts name if absent and reports whether it was new.
func (r *EntityRegistry) Add(name string) bool {
	if _, ok := r.seen[name]; ok {
		return false
	}
	r.seen[name] = struct{}{}
	return true
}

// Has reports whether name has been registered.
func (r *EntityRegistry) Has(name string) bool {
	_, ok := r.seen[name]
	return ok
}
