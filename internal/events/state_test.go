package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects every value delivered to an observer
type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *recorder[T]) record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

func TestState_ValueAndEmit(t *testing.T) {
	s := NewState(1)
	assert.Equal(t, 1, s.Value())

	s.Emit(2)
	assert.Equal(t, 2, s.Value())
}

func TestState_ObserveReplaysLatest(t *testing.T) {
	s := NewState("initial")
	s.Emit("latest")

	rec := &recorder[string]{}
	cancel := s.Observe(rec.record)
	defer cancel()

	assert.Equal(t, []string{"latest"}, rec.snapshot())

	s.Emit("next")
	assert.Equal(t, []string{"latest", "next"}, rec.snapshot())
}

func TestState_FanOutToAllObservers(t *testing.T) {
	s := NewState(0)

	first := &recorder[int]{}
	second := &recorder[int]{}
	cancelFirst := s.Observe(first.record)
	cancelSecond := s.Observe(second.record)
	defer cancelSecond()

	s.Emit(1)
	cancelFirst()
	s.Emit(2)

	assert.Equal(t, []int{0, 1}, first.snapshot())
	assert.Equal(t, []int{0, 1, 2}, second.snapshot())
	assert.Equal(t, 1, s.observerCount())
}

func TestState_CancelIsIdempotent(t *testing.T) {
	s := NewState(0)
	cancel := s.Observe(func(int) {})

	cancel()
	cancel()

	assert.Equal(t, 0, s.observerCount())
}

func TestState_Update(t *testing.T) {
	s := NewState(10)
	rec := &recorder[int]{}
	cancel := s.Observe(rec.record)
	defer cancel()

	got, emitted := s.Update(func(v int) (int, bool) { return v + 5, true })
	assert.True(t, emitted)
	assert.Equal(t, 15, got)

	got, emitted = s.Update(func(v int) (int, bool) { return v * 100, false })
	assert.False(t, emitted)
	assert.Equal(t, 15, got)

	assert.Equal(t, []int{10, 15}, rec.snapshot())
}

func TestState_ConcurrentEmitAndObserve(t *testing.T) {
	s := NewState(0)

	const emitters = 8
	const perEmitter = 100

	var wg sync.WaitGroup
	for i := 0; i < emitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perEmitter; j++ {
				s.Update(func(v int) (int, bool) { return v + 1, true })
			}
		}()
	}

	// Observers joining mid-stream must see a non-decreasing sequence
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := &recorder[int]{}
			cancel := s.Observe(rec.record)
			time.Sleep(time.Millisecond)
			cancel()

			values := rec.snapshot()
			for k := 1; k < len(values); k++ {
				assert.Equal(t, values[k-1]+1, values[k], "deliveries must be ordered and gapless")
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, emitters*perEmitter, s.Value())
}

func TestState_Subscribe(t *testing.T) {
	s := NewState(1)
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.Subscribe(ctx)

	select {
	case v := <-ch:
		assert.Equal(t, 1, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replayed value")
	}

	s.Emit(2)
	select {
	case v := <-ch:
		assert.Equal(t, 2, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for emitted value")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.observerCount())
}

func TestState_SubscribeConflates(t *testing.T) {
	s := NewState(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	for i := 1; i <= 50; i++ {
		s.Emit(i)
	}

	// A reader that fell behind gets the newest value, not the backlog
	select {
	case v := <-ch:
		assert.Equal(t, 50, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for conflated value")
	}
}
