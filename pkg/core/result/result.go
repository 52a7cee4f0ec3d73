// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package result derives the continuation and future calling
// conventions from a canonical (value, error) returning function.
//
// A migration framework may pass an error-first callback to a driver
// method, or await the returned future. Both forms are produced from
// the same canonical function, so they report an identical outcome.
// A callback is invoked exactly once for every started operation and
// a future settles exactly once.
package result

import (
	"context"
	"fmt"
	"sync"
)

// Callback is an error-first continuation. The `v` argument is only
// meaningful when `err` is nil.
type Callback[T any] func(err error, v T)

// Go runs `fn` in a new goroutine and passes its outcome to `cb`.
// A panic in `fn` is recovered and reported to `cb` as an error.
// When an error is reported, `cb` receives the zero value of T.
// Passing a nil `cb` runs `fn` and discards its outcome.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error), cb Callback[T]) {
	go func() {
		v, err := call(ctx, fn)
		if err != nil {
			var zero T
			v = zero
		}
		if cb != nil {
			cb(err, v)
		}
	}()
}

func call[T any](
	ctx context.Context, fn func(context.Context) (T, error),
) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// Future is a value which becomes available later. Its zero value is
// not usable; obtain instances by the Promise or Start functions.
type Future[T any] struct {
	once sync.Once
	done chan struct{}
	v    T
	err  error
}

// Promise creates a Future and calls `start` with a Callback which
// settles it. Only the first invocation of that Callback has effect.
// The `start` function is expected to begin an asynchronous operation
// and return promptly.
func Promise[T any](start func(Callback[T])) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	start(f.settle)
	return f
}

// Start runs `fn` in a new goroutine and returns a Future which
// settles with its outcome.
func Start[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	return Promise(func(cb Callback[T]) {
		Go(ctx, fn, cb)
	})
}

func (f *Future[T]) settle(err error, v T) {
	f.once.Do(func() {
		f.v, f.err = v, err
		close(f.done)
	})
}

// Done returns a channel which is closed after the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or `ctx` is done.
// In the latter case, the context error is returned and the pending
// operation keeps running in its own goroutine.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.v, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Await starts an operation using `start` and waits for its outcome.
// It is the synchronous counterpart of Promise.
func Await[T any](ctx context.Context, start func(Callback[T])) (T, error) {
	return Promise(start).Await(ctx)
}
