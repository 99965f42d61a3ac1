// Package schedule runs single-shot deferred callbacks that can be
// cancelled before they fire.
//
// Realtime schedules on the wall clock. Callbacks fire on a timer goroutine
// unless Post is set, in which case they are handed to Post so they run on
// the caller's event loop (fyne.Do in the viewer). Manual is a virtual clock
// for tests and scenario replay: callbacks fire synchronously inside Advance.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Task is a pending callback.
type Task interface {
	// Stop cancels the task. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Scheduler creates deferred tasks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// Realtime schedules callbacks with time.AfterFunc.
type Realtime struct {
	// Post, if set, receives the callback instead of it being run on the
	// timer goroutine.
	Post func(func())
}

func (r Realtime) AfterFunc(d time.Duration, f func()) Task {
	t := &realtimeTask{}
	t.timer = time.AfterFunc(d, func() {
		if r.Post == nil {
			t.run(f)
			return
		}
		r.Post(func() { t.run(f) })
	})
	return t
}

// realtimeTask guards against a callback that was already posted to the
// event loop when Stop was called.
type realtimeTask struct {
	timer *time.Timer

	mu      sync.Mutex
	stopped bool
	fired   bool
}

func (t *realtimeTask) run(f func()) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	f()
}

func (t *realtimeTask) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

// Manual is a virtual clock. The zero value starts at time zero.
// It is not safe for concurrent use.
type Manual struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	clock *Manual
	due   time.Duration
	seq   int
	f     func()
	done  bool
}

func (t *manualTask) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.clock.remove(t)
	return true
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Task {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{clock: m, due: m.now + d, seq: m.seq, f: f}
	m.tasks = append(m.tasks, t)
	return t
}

// Now returns the virtual time elapsed since the clock was created.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of tasks that have not fired or been stopped.
func (m *Manual) Pending() int {
	return len(m.tasks)
}

// Advance moves the clock forward by d and runs every task that falls due,
// in due-time order (ties in creation order). Tasks scheduled by a callback
// run in the same call if they fall due within the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		t := m.next(end)
		if t == nil {
			break
		}
		m.now = t.due
		t.done = true
		m.remove(t)
		t.f()
	}
	m.now = end
}

func (m *Manual) next(end time.Duration) *manualTask {
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due != m.tasks[j].due {
			return m.tasks[i].due < m.tasks[j].due
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	if m.tasks[0].due > end {
		return nil
	}
	return m.tasks[0]
}

func (m *Manual) remove(t *manualTask) {
	for i, c := range m.tasks {
		if c == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
