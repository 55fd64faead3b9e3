package view

import (
	"sync"

	"github.com/google/uuid"
)

// Tracker hands out tasks for a view's in-flight calls. Only the newest task
// of a mounted view may apply its result.
type Tracker struct {
	mu        sync.Mutex
	gen       uint64
	unmounted bool
}

// Task identifies one in-flight call
type Task struct {
	ID      string
	gen     uint64
	tracker *Tracker
}

// Start begins a new task, superseding any earlier one
func (t *Tracker) Start() Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	return Task{ID: uuid.NewString(), gen: t.gen, tracker: t}
}

// Unmount invalidates every task, current and future
func (t *Tracker) Unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unmounted = true
	t.gen++
}

// Unmounted reports whether the owning view is gone
func (t *Tracker) Unmounted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unmounted
}

// Current reports whether the task's result may still be applied
func (task Task) Current() bool {
	if task.tracker == nil {
		return false
	}
	task.tracker.mu.Lock()
	defer task.tracker.mu.Unlock()
	return !task.tracker.unmounted && task.gen == task.tracker.gen
}
