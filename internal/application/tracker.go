package application

import (
	"sync"

	"github.com/example/academic-scheduler/internal/timetable"
)

// GenerationTracker serializes timetable generations per (semester,
// department, year) key and pins the registry entities a running generation
// reads, so concurrent deletes cannot pull inputs out from under the solver.
type GenerationTracker struct {
	mu      sync.Mutex
	active  map[timetable.Key]struct{}
	pinned  map[string]int
	cancels map[timetable.Key]func()
}

// NewGenerationTracker returns an empty tracker.
func NewGenerationTracker() *GenerationTracker {
	return &GenerationTracker{
		active:  make(map[timetable.Key]struct{}),
		pinned:  make(map[string]int),
		cancels: make(map[timetable.Key]func()),
	}
}

// Begin registers a run for the key and pins the given entity IDs. It
// returns ErrGenerationInProgress when a run for the same key is already
// in flight. cancel, when non-nil, is invoked by CancelRun.
func (t *GenerationTracker) Begin(key timetable.Key, entityIDs []string, cancel func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.active[key]; ok {
		return ErrGenerationInProgress
	}
	t.active[key] = struct{}{}
	if cancel != nil {
		t.cancels[key] = cancel
	}
	for _, id := range entityIDs {
		t.pinned[id]++
	}
	return nil
}

// End releases the run for the key and unpins its entity IDs. The IDs must
// match the ones passed to Begin.
func (t *GenerationTracker) End(key timetable.Key, entityIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.active, key)
	delete(t.cancels, key)
	for _, id := range entityIDs {
		if t.pinned[id] <= 1 {
			delete(t.pinned, id)
			continue
		}
		t.pinned[id]--
	}
}

// Holds reports whether any in-flight generation references the entity.
func (t *GenerationTracker) Holds(entityID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.pinned[entityID]
	return ok
}

// Running reports whether a generation for the key is in flight.
func (t *GenerationTracker) Running(key timetable.Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.active[key]
	return ok
}

// CancelRun aborts the in-flight generation for the key, if any, and
// reports whether one was signalled.
func (t *GenerationTracker) CancelRun(key timetable.Key) bool {
	t.mu.Lock()
	cancel, ok := t.cancels[key]
	t.mu.Unlock()

	if !ok || cancel == nil {
		return false
	}
	cancel()
	return true
}
