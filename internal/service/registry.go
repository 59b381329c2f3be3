package service

import (
	"sync"

	"go.uber.org/zap"
)

// Registry holds the venues served by one process.  Each venue keeps its
// own lock; the registry lock only guards the map.
type Registry struct {
	mu        sync.RWMutex
	venues    map[string]*Venue
	order     []string
	publisher EventPublisher
	log       *zap.Logger
}

// NewRegistry returns an empty registry whose venues share publisher and log.
func NewRegistry(publisher EventPublisher, log *zap.Logger) *Registry {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{venues: make(map[string]*Venue), publisher: publisher, log: log}
}

// Create adds a new venue and returns it.
func (r *Registry) Create(title string, rows, seatsPerRow int) (*Venue, error) {
	v, err := NewVenue(title, rows, seatsPerRow, WithPublisher(r.publisher), WithLogger(r.log))
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.venues[v.ID()] = v
	r.order = append(r.order, v.ID())
	r.mu.Unlock()
	r.log.Info("venue created", zap.String("venue_id", v.ID()), zap.String("title", v.Title()),
		zap.Int("rows", rows), zap.Int("seats_per_row", seatsPerRow))
	return v, nil
}

// Get returns the venue with id or ErrVenueNotFound.
func (r *Registry) Get(id string) (*Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.venues[id]
	if !ok {
		return nil, ErrVenueNotFound
	}
	return v, nil
}

// List returns venues in creation order.
func (r *Registry) List() []*Venue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Venue, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.venues[id])
	}
	return out
}
