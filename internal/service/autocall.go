package service

import (
	"context"
	"slices"
	"sync"
	"time"
)

// AutoCaller owns the per-session auto-call timers. At most one task runs per
// session; replacing a task stops the old one inside the same critical section.
// The registry lock is never held while acquiring a session lock.
type AutoCaller struct {
	mu    sync.Mutex
	tasks map[string]*autoCallTask

	allowed []int
	unit    time.Duration

	tick   func(ctx context.Context, sessionID string, t *autoCallTask)
	ctx    context.Context
	cancel context.CancelFunc
}

type autoCallTask struct {
	interval int
	stop     chan struct{}
	once     sync.Once
}

func (t *autoCallTask) halt() {
	t.once.Do(func() { close(t.stop) })
}

func (t *autoCallTask) stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

// AutoCallStatus is the public view of a session's scheduler.
type AutoCallStatus struct {
	Active   bool `json:"active"`
	Interval int  `json:"interval"`
}

// NewAutoCaller accepts intervals from allowed, each measured in unit
// (time.Second in production).
func NewAutoCaller(allowed []int, unit time.Duration) *AutoCaller {
	if len(allowed) == 0 {
		allowed = []int{5, 10, 15, 30}
	}
	if unit <= 0 {
		unit = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AutoCaller{
		tasks:   make(map[string]*autoCallTask),
		allowed: append([]int(nil), allowed...),
		unit:    unit,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Intervals returns the accepted interval values.
func (a *AutoCaller) Intervals() []int {
	return append([]int(nil), a.allowed...)
}

func (a *AutoCaller) ValidInterval(interval int) bool {
	return slices.Contains(a.allowed, interval)
}

func (a *AutoCaller) IsActive(sessionID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.tasks[sessionID]
	return ok
}

// CurrentInterval returns 0 when auto-call is off.
func (a *AutoCaller) CurrentInterval(sessionID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.tasks[sessionID]; ok {
		return t.interval
	}
	return 0
}

func (a *AutoCaller) Status(sessionID string) AutoCallStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.tasks[sessionID]; ok {
		return AutoCallStatus{Active: true, Interval: t.interval}
	}
	return AutoCallStatus{}
}

// start registers a new task for sessionID, replacing any running one.
func (a *AutoCaller) start(sessionID string, interval int) {
	t := &autoCallTask{interval: interval, stop: make(chan struct{})}

	a.mu.Lock()
	old, replaced := a.tasks[sessionID]
	a.tasks[sessionID] = t
	if replaced {
		old.halt()
	} else {
		AutoCallActive.Inc()
	}
	a.mu.Unlock()

	go a.run(sessionID, t)
}

// stop is idempotent.
func (a *AutoCaller) stop(sessionID string) bool {
	a.mu.Lock()
	t, ok := a.tasks[sessionID]
	if ok {
		delete(a.tasks, sessionID)
		AutoCallActive.Dec()
	}
	a.mu.Unlock()

	if ok {
		t.halt()
	}
	return ok
}

// stopTask deregisters t only if it is still the registered task.
func (a *AutoCaller) stopTask(sessionID string, t *autoCallTask) {
	a.mu.Lock()
	if cur, ok := a.tasks[sessionID]; ok && cur == t {
		delete(a.tasks, sessionID)
		AutoCallActive.Dec()
	}
	a.mu.Unlock()
	t.halt()
}

// StopAll halts every task and prevents in-flight ticks from acting.
func (a *AutoCaller) StopAll() {
	a.cancel()

	a.mu.Lock()
	tasks := a.tasks
	a.tasks = make(map[string]*autoCallTask)
	AutoCallActive.Sub(float64(len(tasks)))
	a.mu.Unlock()

	for _, t := range tasks {
		t.halt()
	}
}

func (a *AutoCaller) run(sessionID string, t *autoCallTask) {
	ticker := time.NewTicker(time.Duration(t.interval) * a.unit)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			if a.tick != nil {
				a.tick(a.ctx, sessionID, t)
			}
		}
	}
}
