// Package loop runs the single-threaded frame loop. Work from other
// goroutines (asset completions, input, resize) is posted to the loop and
// runs between frames, so scene state is only ever touched from one place.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Post after Run has returned.
var ErrStopped = errors.New("loop stopped")

// Frame is called once per tick with the time since the previous tick.
type Frame func(dt time.Duration)

// Loop serializes posted work and frames onto the goroutine calling Run.
type Loop struct {
	fps int

	mu      sync.Mutex
	queue   []func()
	latest  map[string]func()
	order   []string
	stopped bool
	wake    chan struct{}
}

// New creates a loop ticking at fps frames per second.
func New(fps int) *Loop {
	return &Loop{
		fps:    max(fps, 1),
		latest: make(map[string]func()),
		wake:   make(chan struct{}, 1),
	}
}

// FPS returns the target frame rate.
func (l *Loop) FPS() int { return l.fps }

// Post queues fn to run on the loop goroutine. Calls run in post order.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrStopped
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
	return nil
}

// Dispatch posts fn and drops it if the loop has stopped. It matches the
// callback dispatcher signature used by asset loaders.
func (l *Loop) Dispatch(fn func()) { _ = l.Post(fn) }

// PostLatest queues fn under key, replacing any call still pending for the
// same key. Keyed calls run after plain posts, in first-posted key order.
func (l *Loop) PostLatest(key string, fn func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrStopped
	}
	if _, ok := l.latest[key]; !ok {
		l.order = append(l.order, key)
	}
	l.latest[key] = fn
	l.mu.Unlock()
	l.signal()
	return nil
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Drain runs everything posted so far on the calling goroutine and reports
// how many calls ran. Run calls it before every frame.
func (l *Loop) Drain() int {
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	keyed := make([]func(), 0, len(l.order))
	for _, k := range l.order {
		keyed = append(keyed, l.latest[k])
	}
	l.order = l.order[:0]
	clear(l.latest)
	l.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	for _, fn := range keyed {
		fn()
	}
	return len(queue) + len(keyed)
}

// Run ticks until ctx is cancelled, draining posted work and then calling
// frame on every tick. Posted work also runs as soon as it arrives.
func (l *Loop) Run(ctx context.Context, frame Frame) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.fps))
	defer ticker.Stop()
	defer l.stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.Drain()
			return ctx.Err()
		case <-l.wake:
			l.Drain()
		case now := <-ticker.C:
			l.Drain()
			dt := now.Sub(last)
			last = now
			// Cap the step after stalls so springs do not jump.
			if dt > 100*time.Millisecond {
				dt = 100 * time.Millisecond
			}
			if frame != nil {
				frame(dt)
			}
		}
	}
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
}
