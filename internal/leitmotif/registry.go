package leitmotif

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/mpn/internal/actor"
)

// Entry is one actor's registry record. Base is the motif as generated;
// Current is Base with the most recent transformation applied.
type Entry struct {
	Base      Leitmotif `json:"base"`
	Current   Leitmotif `json:"current"`
	UseCount  int       `json:"use_count"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// Stats summarises registry usage.
type Stats struct {
	TotalActors int    `json:"total_actors"`
	TotalUses   int    `json:"total_uses"`
	MostUsed    string `json:"most_used,omitempty"` // actor name; ties go to the lowest actor ID
}

// Registry holds one leitmotif per actor ID.
//
// Thread-safety: all methods are safe for concurrent use. Callers that need
// at most one writer per actor across several calls must serialize those
// calls themselves; the score orchestrator does so with its own mutex.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	ids     IDGenerator
	now     func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIDGenerator sets the generator for new motif IDs.
func WithIDGenerator(g IDGenerator) RegistryOption {
	return func(r *Registry) { r.ids = g }
}

// WithNow sets the time source for CreatedAt and LastUsed.
func WithNow(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates an empty registry that issues UUIDv7 IDs.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]*Entry),
		ids:     UUIDv7Generator{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register generates a new motif for p and stores it, replacing any prior
// entry for p.ID.
func (r *Registry) Register(p actor.Profile) Leitmotif {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(p)
}

// Get returns the actor's current motif. ok is false when the actor has
// no entry.
func (r *Registry) Get(actorID string) (Leitmotif, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[actorID]
	if !ok {
		return Leitmotif{}, false
	}
	r.touchLocked(e)
	return e.Current, true
}

// Peek is Get without counting a use.
func (r *Registry) Peek(actorID string) (Leitmotif, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[actorID]
	if !ok {
		return Leitmotif{}, false
	}
	return e.Current, true
}

// Ensure returns the existing motif for p.ID, creating one when absent.
// Repeated calls for the same actor return the same ID.
func (r *Registry) Ensure(p actor.Profile) Leitmotif {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[p.ID]; ok {
		r.touchLocked(e)
		return e.Current
	}
	return r.createLocked(p)
}

// Apply sets the actor's current motif to its base transformed by kind and
// returns it. History accumulates across calls; the pitch material does
// not. ok is false when the actor has no entry.
func (r *Registry) Apply(actorID string, kind Kind) (Leitmotif, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[actorID]
	if !ok {
		return Leitmotif{}, false
	}
	m := Transform(e.Base, kind)
	m.TransformationHistory = append(append([]Kind(nil), e.Current.TransformationHistory...), m.CurrentTransformation)
	e.Current = m
	r.touchLocked(e)
	return m, true
}

// Put stores m as the actor's current motif. When the actor has no entry,
// m also becomes its base.
func (r *Registry) Put(m Leitmotif) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[m.ActorID]; ok {
		e.Current = m
		r.touchLocked(e)
		return
	}
	now := r.now()
	r.entries[m.ActorID] = &Entry{Base: m, Current: m, UseCount: 1, CreatedAt: now, LastUsed: now}
}

// Has reports whether the actor has an entry without counting a use.
func (r *Registry) Has(actorID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[actorID]
	return ok
}

// Remove deletes the actor's entry and reports whether one existed.
func (r *Registry) Remove(actorID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[actorID]
	delete(r.entries, actorID)
	return ok
}

// Len returns the number of registered actors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Entries returns a snapshot of all entries ordered by actor ID.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Base.ActorID < out[j].Base.ActorID })
	return out
}

// Stats reports actor count, total uses, and the most used actor.
func (r *Registry) Stats() Stats {
	var s Stats
	best := -1
	for _, e := range r.Entries() {
		s.TotalActors++
		s.TotalUses += e.UseCount
		if e.UseCount > best {
			best = e.UseCount
			s.MostUsed = e.Base.ActorName
		}
	}
	return s
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*Entry)
}

func (r *Registry) createLocked(p actor.Profile) Leitmotif {
	m := GenerateWithID(p, r.ids)
	now := r.now()
	r.entries[p.ID] = &Entry{Base: m, Current: m, UseCount: 1, CreatedAt: now, LastUsed: now}
	return m
}

func (r *Registry) touchLocked(e *Entry) {
	e.UseCount++
	e.LastUsed = r.now()
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns a process-wide registry, creating it on first use.
// Prefer constructing a Registry and passing it explicitly; Default exists
// for one-shot callers such as the CLI.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}
