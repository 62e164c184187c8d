package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Loop runs UI work on a single goroutine. Network calls run as background
// tasks and hand their continuation back to the loop, so continuations never
// run concurrently with each other or with triggers posted to the loop.
type Loop struct {
	mu     sync.Mutex
	idle   *sync.Cond
	queue  []func()
	busy   int // queued continuations plus in-flight tasks
	closed bool

	wake  chan struct{}
	stop  chan struct{}
	group errgroup.Group
}

// NewLoop starts the loop goroutine
func NewLoop() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	l.idle = sync.NewCond(&l.mu)
	l.group.Go(l.run)
	return l
}

// Post queues fn to run on the loop goroutine. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.busy++
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run posts fn and blocks until it has executed. Must not be called from the loop goroutine.
func (l *Loop) Run(fn func()) bool {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	<-done
	return true
}

// Go runs call in its own goroutine and posts the continuation it returns.
// Tasks are neither deduplicated nor cancelled by the loop.
func (l *Loop) Go(ctx context.Context, call func(ctx context.Context) func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.busy++
	l.mu.Unlock()

	l.group.Go(func() error {
		defer l.release()
		if cont := call(ctx); cont != nil {
			l.Post(cont)
		}
		return nil
	})
	return true
}

// Wait blocks until no task is in flight and no continuation is queued.
// Must not be called from the loop goroutine.
func (l *Loop) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.busy > 0 {
		l.idle.Wait()
	}
}

// Close waits for outstanding work, then stops the loop goroutine.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	for l.busy > 0 {
		l.idle.Wait()
	}
	l.closed = true
	l.mu.Unlock()

	close(l.stop)
	return l.group.Wait()
}

func (l *Loop) run() error {
	for {
		if fn, ok := l.next(); ok {
			l.exec(fn)
			continue
		}
		select {
		case <-l.wake:
		case <-l.stop:
			return nil
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) exec(fn func()) {
	defer l.release()
	fn()
}

func (l *Loop) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy--
	if l.busy == 0 {
		l.idle.Broadcast()
	}
}
