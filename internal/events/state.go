package events

import (
	"context"
	"sync"
)

// observer is a registered delivery callback.
type observer[T any] struct {
	id uint64
	fn func(T)
}

// State is a concurrency-safe, replay-latest broadcast of a single value.
//
// Deliveries are serialized: an observer never sees two values concurrently and
// sees them in emission order. Observers run on the emitting goroutine, so they
// must return quickly and must not emit on, or cancel their subscription to, the
// State that is delivering to them.
type State[T any] struct {
	// deliverMu serializes emissions and subscription replays
	deliverMu sync.Mutex

	// mu guards value and observers
	mu        sync.RWMutex
	value     T
	observers []observer[T]
	nextID    uint64
}

// NewState creates a State holding the initial value.
func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value:     initial,
		observers: make([]observer[T], 0),
	}
}

// Value returns the most recently emitted value.
func (s *State[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Emit stores v as the current value and delivers it to all current observers.
func (s *State[T]) Emit(v T) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.deliver(s.store(v), v)
}

// Update atomically derives the next value from the current one. When fn reports
// false nothing is stored or delivered. Update returns the resulting current value
// and whether an emission happened.
func (s *State[T]) Update(fn func(current T) (T, bool)) (T, bool) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	next, ok := fn(s.Value())
	if !ok {
		return s.Value(), false
	}
	s.deliver(s.store(next), next)
	return next, true
}

// Observe registers fn. It is called immediately with the current value and then
// with every subsequent emission. The returned function removes the observer; once
// it returns, fn will not be called again.
func (s *State[T]) Observe(fn func(T)) (cancel func()) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.deliverMu.Lock()
			defer s.deliverMu.Unlock()
			s.remove(id)
		})
	}
}

// Subscribe returns a channel that receives the current value and then later
// emissions. The channel is conflated: when the reader falls behind it receives
// the newest value rather than a backlog. The channel is closed once ctx is done.
func (s *State[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	cancel := s.Observe(func(v T) {
		select {
		case ch <- v:
		default:
			// drop the stale value so the newest one wins
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
		close(ch)
	}()

	return ch
}

// observerCount reports how many observers are registered.
func (s *State[T]) observerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// store replaces the current value and returns a copy of the observer list.
func (s *State[T]) store(v T) []observer[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	observers := make([]observer[T], len(s.observers))
	copy(observers, s.observers)
	return observers
}

func (s *State[T]) deliver(observers []observer[T], v T) {
	for _, o := range observers {
		o.fn(v)
	}
}

func (s *State[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}
