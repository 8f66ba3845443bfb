package feed

import "sync"

// Feeds bundles the per-user feed state that has to survive across
// requests: the discovery feed, the my-events feed, and the filter
// builder driving the discovery feed.
type Feeds struct {
	Main    *Controller
	Mine    *Controller
	Builder *Builder
}

// Registry hands out each signed-in user's Feeds, creating them lazily.
// Entries are dropped on logout and account deletion.
type Registry struct {
	mu      sync.Mutex
	byUser  map[int]*Feeds
	factory func() *Feeds
}

func NewRegistry(factory func() *Feeds) *Registry {
	return &Registry{
		byUser:  make(map[int]*Feeds),
		factory: factory,
	}
}

func (r *Registry) For(userID int) *Feeds {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byUser[userID]
	if !ok {
		f = r.factory()
		r.byUser[userID] = f
	}
	return f
}

func (r *Registry) Drop(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}
