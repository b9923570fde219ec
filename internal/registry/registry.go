// Package registry keeps the in-memory working set of orders.
//
// Entries are spread over shards selected by key hash, so unrelated orders never contend on a
// common lock. Every entry carries its own update lock: updates to one order are serialized while
// reads of that order and all operations on other orders proceed.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rookgm/chinpay/internal/logger"
	"github.com/rookgm/chinpay/internal/models"
	"go.uber.org/zap"
)

const shardCount = 32

// ErrExists is returned by Insert when an entry with the same id is present
var ErrExists = errors.New("order already exists")

type entry struct {
	// updateMu serializes Update calls, it may be held across slow operations
	updateMu sync.Mutex

	// mu guards fields below, it is never held across slow operations
	mu        sync.RWMutex
	order     models.Order
	createdAt time.Time
	retire    *time.Timer
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// Registry is concurrent mapping from order id to order state and creation time
type Registry struct {
	shards [shardCount]*shard
	now    func() time.Time
}

// Option configures Registry
type Option func(r *Registry)

// WithClock sets clock used to tag inserted entries
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New creates new empty Registry
func New(opts ...Option) *Registry {
	r := &Registry{now: time.Now}
	for i := range r.shards {
		r.shards[i] = &shard{entries: make(map[string]*entry)}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) shardFor(id string) *shard {
	return r.shards[xxhash.Sum64String(id)%shardCount]
}

func (r *Registry) lookup(id string) (*entry, bool) {
	s := r.shardFor(id)
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	return e, ok
}

// Insert adds new entry keyed by order id
func (r *Registry) Insert(order models.Order) error {
	s := r.shardFor(order.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[order.ID]; ok {
		return ErrExists
	}
	s.entries[order.ID] = &entry{
		order:     order,
		createdAt: r.now(),
	}

	return nil
}

// Get returns snapshot of order
func (r *Registry) Get(id string) (models.Order, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return models.Order{}, false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.order, true
}

// Update applies fn to a private copy of the order under exclusive update access to that entry.
// The copy replaces the stored order only if fn returns nil, otherwise the stored order is left
// untouched and the error is returned. Readers keep seeing the previous state while fn runs.
// It returns false if the entry does not exist.
func (r *Registry) Update(id string, fn func(order *models.Order) error) (bool, error) {
	e, ok := r.lookup(id)
	if !ok {
		return false, nil
	}

	e.updateMu.Lock()
	defer e.updateMu.Unlock()

	e.mu.RLock()
	working := e.order
	e.mu.RUnlock()

	if err := fn(&working); err != nil {
		return true, err
	}

	e.mu.Lock()
	working.ID = e.order.ID
	working.CreatedAt = e.order.CreatedAt
	e.order = working
	e.mu.Unlock()

	return true, nil
}

// Mutate applies in-place transformation of the order, absent id is a no-op
func (r *Registry) Mutate(id string, fn func(order *models.Order)) bool {
	ok, _ := r.Update(id, func(order *models.Order) error {
		fn(order)
		return nil
	})
	return ok
}

// Remove evicts the entry, it is safe to call for absent id
func (r *Registry) Remove(id string) {
	s := r.shardFor(id)

	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if ok {
		e.stopRetire()
	}
}

// Retire schedules removal of the entry after delay. Only the first call for an entry schedules,
// later calls are no-op. It returns false if the entry does not exist.
func (r *Registry) Retire(id string, after time.Duration) bool {
	e, ok := r.lookup(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.retire != nil {
		return true
	}
	e.retire = time.AfterFunc(after, func() {
		r.removeEntry(id, e)
		logger.Log.Info("order retired", zap.String("order", id))
	})

	return true
}

// removeEntry removes id only if it still maps to e
func (r *Registry) removeEntry(id string, e *entry) {
	s := r.shardFor(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[id]; ok && cur == e {
		delete(s.entries, id)
	}
}

func (e *entry) stopRetire() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.retire != nil {
		e.retire.Stop()
	}
}

// Sweep removes every entry older than ttl and returns number of removed entries.
// Shards are swept one at a time, so operations on other shards are not blocked.
func (r *Registry) Sweep(now time.Time, ttl time.Duration) int {
	removed := 0

	for _, s := range r.shards {
		var evicted []*entry

		s.mu.Lock()
		for id, e := range s.entries {
			// createdAt is immutable after insert
			if now.Sub(e.createdAt) > ttl {
				delete(s.entries, id)
				evicted = append(evicted, e)
				logger.Log.Info("order timed out and is being removed", zap.String("order", id))
			}
		}
		s.mu.Unlock()

		for _, e := range evicted {
			e.stopRetire()
		}
		removed += len(evicted)
	}

	return removed
}

// Len returns number of entries
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}
