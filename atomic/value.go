/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package atomic holds the one primitive staticd needs for lock-free
// cross-goroutine reads: a typed wrapper around sync/atomic.Value so
// config.Loader can publish a freshly reloaded config.Config without ever
// blocking a request-serving goroutine on a mutex.
package atomic

import "sync/atomic"

// Value is a type-safe slot holding the most recently Stored T, readable
// from any goroutine without locking. The zero value of T is returned by
// Load until the first Store.
type Value[T any] struct {
	v atomic.Value
}

// box is needed because atomic.Value panics if successive Store calls are
// given different concrete types, which a bare T can trip over when T is
// itself an interface.
type box[T any] struct {
	t T
}

// NewValue returns a Value ready for use.
func NewValue[T any]() *Value[T] {
	return &Value[T]{}
}

// Load returns the last value passed to Store, or the zero value of T if
// Store has never been called.
func (o *Value[T]) Load() T {
	b, ok := o.v.Load().(box[T])
	if !ok {
		var zero T
		return zero
	}
	return b.t
}

// Store publishes val as the new current value. Concurrent Load calls
// (including ones already in flight) observe either the old or the new
// value, never a partial one.
func (o *Value[T]) Store(val T) {
	o.v.Store(box[T]{t: val})
}
