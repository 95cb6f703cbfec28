package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

// Change is delivered to listeners after every committed update.
type Change struct {
	State  State
	Update Update
	Prev   State
	Action string
}

// Listener observes committed changes.
type Listener func(Change)

// Options configure a Store.
type Options struct {
	Logger       *zap.Logger
	Debug        bool // record history
	HistoryLimit int  // zero uses 50
}

// Store owns the application state. All mutation goes through SetState,
// Batch or Reset; reads go through GetState, which returns a deep copy.
type Store struct {
	logger *zap.Logger

	mu          sync.Mutex
	state       State
	listeners   []registration
	nextID      uint64
	queue       []pending
	dispatching bool

	debug   bool
	history *history
}

type registration struct {
	id       uint64
	listener Listener
}

type pending struct {
	update  Update
	action  string
	applied bool
	prev    State
}

// NewStore creates a store holding InitialState.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &Store{
		logger:  logger.Named("store"),
		state:   InitialState(),
		debug:   opts.Debug,
		history: newHistory(limit),
	}
}

// GetState returns a deep copy of the current state.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetState merges u into the state and notifies every listener once.
// Updates issued while listeners are being notified are queued and applied
// after the running notification cycle completes.
func (s *Store) SetState(u Update, action string) {
	s.enqueue(pending{update: u, action: action})
}

// Batch runs fn with a setter and notifies listeners once, after fn
// returns, with the combined update. Outside a notification cycle each
// partial update is merged into the state immediately and updates issued
// by fn are queued behind the batch. Inside a cycle the partial updates are
// buffered and the combined update takes its turn in the queue like any
// other SetState.
func (s *Store) Batch(fn func(set func(Update)), action string) {
	var combined Update

	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		if fn != nil {
			fn(func(u Update) { combined = combined.Merge(u) })
		}
		s.enqueue(pending{update: combined, action: action})
		return
	}
	s.dispatching = true
	prev := s.state.Clone()
	s.mu.Unlock()

	set := func(u Update) {
		s.mu.Lock()
		s.state.apply(u)
		s.mu.Unlock()
		combined = combined.Merge(u)
	}
	if fn != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.mu.Lock()
					s.dispatching = false
					s.mu.Unlock()
					panic(r)
				}
			}()
			fn(set)
		}()
	}

	s.mu.Lock()
	s.queue = slices.Insert(s.queue, 0, pending{update: combined, action: action, applied: true, prev: prev})
	s.drain()
}

// Reset restores InitialState through the regular update path.
func (s *Store) Reset() {
	s.SetState(Replace(InitialState()), "reset")
}

// Subscribe registers listener and returns a func that removes it.
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, registration{id: id, listener: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(r registration) bool {
				return r.id == id
			})
		})
	}
}

// History returns the recorded changes, oldest first. Empty unless debug is on.
func (s *Store) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.entries()
}

// ClearHistory drops all recorded changes.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.clear()
}

func (s *Store) enqueue(p pending) {
	s.mu.Lock()
	s.queue = append(s.queue, p)
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.drain()
}

// drain notifies every queued update in order. It is entered with s.mu held
// and dispatching set, and returns with s.mu released.
func (s *Store) drain() {
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue[0] = pending{}
		s.queue = s.queue[1:]

		prev := next.prev
		if !next.applied {
			prev = s.state.Clone()
			s.state.apply(next.update)
		}
		change := Change{
			State:  s.state.Clone(),
			Update: next.update.clone(),
			Prev:   prev,
			Action: next.action,
		}
		if s.debug {
			s.history.add(HistoryEntry{
				Time:   time.Now(),
				Action: change.Action,
				Prev:   change.Prev.Clone(),
				Update: change.Update.clone(),
				Next:   change.State.Clone(),
			})
		}
		listeners := slices.Clone(s.listeners)
		s.mu.Unlock()

		s.logger.Debug("state updated",
			zap.String("action", change.Action),
			zap.Strings("fields", change.Update.Fields()),
		)
		for _, reg := range listeners {
			s.notify(reg.listener, change)
		}

		s.mu.Lock()
	}

	s.dispatching = false
	s.mu.Unlock()
}

func (s *Store) notify(listener Listener, change Change) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("state listener panicked",
				zap.String("action", change.Action),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	listener(change)
}
