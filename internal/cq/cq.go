// Package cq implements a simple concurrent queue. Any number of
// goroutines may add values while a single owner drains them in
// batches, which keeps all state touched by the queued values on the
// owner goroutine.
package cq

import "sync"

// Flush calls every function in queue in order and collects the
// errors they return.
func Flush(queue []func() error) (errs []error) {
	for _, ev := range queue {
		err := ev()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

type Queue[T any] struct {
	done  chan struct{}
	close sync.Once

	add chan T
	get chan []T
}

func New[T any]() *Queue[T] {
	q := Queue[T]{
		done: make(chan struct{}),
		add:  make(chan T),
		get:  make(chan []T),
	}
	go q.run()

	return &q
}

// Stop stops the queue. Pending values are discarded.
func (q *Queue[T]) Stop() {
	q.close.Do(func() {
		close(q.done)
	})
}

// Done is closed once Stop has been called.
func (q *Queue[T]) Done() <-chan struct{} {
	return q.done
}

// Push adds v to the queue. It reports false if the queue was stopped
// before v could be added.
func (q *Queue[T]) Push(v T) bool {
	select {
	case <-q.done:
		return false
	case q.add <- v:
		return true
	}
}

// Get returns a channel that yields everything added since the last
// receive. It never yields an empty batch.
func (q *Queue[T]) Get() <-chan []T {
	return q.get
}

func (q *Queue[T]) run() {
	var s []T
	var get chan []T

	for {
		select {
		case <-q.done:
			return

		case v := <-q.add:
			s = append(s, v)
			get = q.get

		case get <- s:
			s = nil
			get = nil
		}
	}
}
