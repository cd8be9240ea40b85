// Package queue implements the single-worker FIFO queue that serializes preview generation.
package queue

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/zerr"
)

// Task is a unit of work executed by the queue worker.
type Task func(ctx context.Context) error

// Option configures a Queue.
type Option func(*Queue)

// WithTaskTimeout bounds the run time of every task. Zero disables the bound.
func WithTaskTimeout(d time.Duration) Option {
	return func(q *Queue) {
		q.taskTimeout = d
	}
}

type runningKey struct{}

type job struct {
	ctx  context.Context //nolint:containedctx // Caller context travels with the job
	task Task
	done chan error
	elem *list.Element
}

// Queue runs submitted tasks one at a time in submission order.
type Queue struct {
	taskTimeout time.Duration

	mu      sync.Mutex
	jobs    *list.List
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// New creates a Queue and starts its worker.
func New(opts ...Option) *Queue {
	q := &Queue{
		jobs:    list.New(),
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	go q.loop()
	return q
}

// Do submits task and blocks until it has run, returning the task's error.
//
// A caller whose context ends while the task is still waiting is removed from the
// queue and receives the context error. Once started, a task always runs to
// completion and Do reports its result. Calling Do from inside a running task of the
// same queue runs the nested task inline, since the worker is already held.
func (q *Queue) Do(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if owner, ok := ctx.Value(runningKey{}).(*Queue); ok && owner == q {
		return q.execute(ctx, task)
	}

	j := &job{ctx: ctx, task: task, done: make(chan error, 1)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return domain.ErrQueueClosed
	}
	j.elem = q.jobs.PushBack(j)
	q.mu.Unlock()
	q.signal()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
	}

	q.mu.Lock()
	if j.elem != nil {
		q.jobs.Remove(j.elem)
		j.elem = nil
		q.mu.Unlock()
		return ctx.Err()
	}
	q.mu.Unlock()

	return <-j.done
}

// Run submits fn to q and returns its value once it has run.
func Run[T any](ctx context.Context, q *Queue, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := q.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}

// Pending returns the number of tasks waiting to start.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs.Len()
}

// Close stops accepting tasks, waits for the queued ones to finish and stops the worker.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
	<-q.stopped
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) loop() {
	defer close(q.stopped)

	for {
		q.mu.Lock()
		for q.jobs.Len() == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		j, _ := q.jobs.Remove(q.jobs.Front()).(*job)
		j.elem = nil
		q.mu.Unlock()

		j.done <- q.start(j)
	}
}

func (q *Queue) start(j *job) error {
	if err := j.ctx.Err(); err != nil {
		return err
	}

	ctx := context.WithValue(j.ctx, runningKey{}, q)
	if q.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.taskTimeout)
		defer cancel()
	}

	return q.execute(ctx, j.task)
}

func (q *Queue) execute(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(domain.WithCause(domain.ErrTaskPanicked, zerr.New(fmt.Sprint(r))), "panic", r)
		}
	}()
	return task(ctx)
}
