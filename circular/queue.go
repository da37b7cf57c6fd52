// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package circular

import "math/bits"

const minQueueSize = 8

// NextExp2 returns the next power of 2 strictly greater than x.  x must be
// positive.
func NextExp2(x int) int {
	return 2 << uint(63-bits.LeadingZeros64(uint64(x)))
}

// Queue is an insertion-ordered FIFO backed by a power-of-2 circular buffer.
// It holds a sliding window of recently emitted values: new values are
// appended at the back, and expired ones are removed with PopFront or
// Filter.  The zero value is an empty queue.  A Queue is not threadsafe.
type Queue[T any] struct {
	buf   []T
	first int // circular index of the oldest element
	n     int
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int { return q.n }

// At returns the i-th oldest value.
func (q *Queue[T]) At(i int) T {
	if i < 0 || i >= q.n {
		panic("circular.Queue: index out of range")
	}
	return q.buf[(q.first+i)&(len(q.buf)-1)]
}

// PushBack appends v as the newest value.
func (q *Queue[T]) PushBack(v T) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.first+q.n)&(len(q.buf)-1)] = v
	q.n++
}

// PopFront removes and returns the oldest value.
func (q *Queue[T]) PopFront() T {
	if q.n == 0 {
		panic("circular.Queue: PopFront on empty queue")
	}
	var zero T
	v := q.buf[q.first]
	q.buf[q.first] = zero
	q.first = (q.first + 1) & (len(q.buf) - 1)
	q.n--
	return v
}

// Filter removes every value for which keep returns false, preserving the
// order of the remaining ones.
func (q *Queue[T]) Filter(keep func(T) bool) {
	mask := len(q.buf) - 1
	j := 0
	for i := 0; i < q.n; i++ {
		v := q.buf[(q.first+i)&mask]
		if keep(v) {
			q.buf[(q.first+j)&mask] = v
			j++
		}
	}
	var zero T
	for i := j; i < q.n; i++ {
		q.buf[(q.first+i)&mask] = zero
	}
	q.n = j
}

func (q *Queue[T]) grow() {
	size := minQueueSize
	if len(q.buf) > 0 {
		size = NextExp2(len(q.buf))
	}
	buf := make([]T, size)
	for i := 0; i < q.n; i++ {
		buf[i] = q.At(i)
	}
	q.buf = buf
	q.first = 0
}
