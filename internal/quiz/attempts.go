package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

// ErrAttemptNotFound is returned for unknown, evicted or expired attempts.
var ErrAttemptNotFound = errors.New("quiz attempt not found")

type attempt struct {
	state   State
	touched time.Time
}

// Attempts keeps in-progress attempts server side so clients only hold the
// attempt id. The least recently used attempt is evicted once maxEntries is
// reached, and an attempt idle for longer than ttl is dropped on access.
type Attempts struct {
	mu    sync.Mutex
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewAttempts(maxEntries int, ttl time.Duration) *Attempts {
	return &Attempts{
		cache: lru.New(maxEntries),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores s under its attempt id.
func (a *Attempts) Put(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Add(s.AttemptID, &attempt{state: s.clone(), touched: a.now()})
}

// Get returns a copy of the stored attempt.
func (a *Attempts) Get(id string) (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	at, err := a.lookupLocked(id)
	if err != nil {
		return State{}, err
	}
	return at.state.clone(), nil
}

// Update applies fn to the stored attempt and keeps its result. Updates of
// one attempt are serialized, and a failing fn leaves the attempt unchanged.
func (a *Attempts) Update(id string, fn func(State) (State, error)) (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	at, err := a.lookupLocked(id)
	if err != nil {
		return State{}, err
	}
	next, err := fn(at.state.clone())
	if err != nil {
		return State{}, err
	}
	at.state = next.clone()
	at.touched = a.now()
	return next, nil
}

// Len reports how many attempts are held, expired ones included.
func (a *Attempts) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cache.Len()
}

func (a *Attempts) lookupLocked(id string) (*attempt, error) {
	v, ok := a.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAttemptNotFound, id)
	}
	at := v.(*attempt)
	if a.ttl > 0 && a.now().Sub(at.touched) > a.ttl {
		a.cache.Remove(id)
		return nil, fmt.Errorf("%w: %q expired", ErrAttemptNotFound, id)
	}
	return at, nil
}
