// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package util

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

// collidingKey hashes every value to the same bucket.
type collidingKey struct{ s []int }

func (k collidingKey) Hash() uint64 { return 7 }

func (k collidingKey) Equal(o collidingKey) bool {
	if len(k.s) != len(o.s) {
		return false
	}
	for i := range k.s {
		if k.s[i] != o.s[i] {
			return false
		}
	}
	return true
}

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap[collidingKey, string]()
	expect.EQ(t, m.Put(collidingKey{[]int{3, 1}}, "a"), 0)
	expect.EQ(t, m.Put(collidingKey{[]int{1}}, "b"), 1)
	expect.EQ(t, m.Put(collidingKey{[]int{0, 0}}, "c"), 2)
	// Replacing keeps the original position.
	expect.EQ(t, m.Put(collidingKey{[]int{3, 1}}, "d"), 0)
	expect.EQ(t, m.Len(), 3)

	v, ok := m.Get(collidingKey{[]int{1}})
	expect.True(t, ok)
	expect.EQ(t, v, "b")
	_, ok = m.Get(collidingKey{[]int{1, 3}})
	expect.False(t, ok)
	i, ok := m.Index(collidingKey{[]int{0, 0}})
	expect.True(t, ok)
	expect.EQ(t, i, 2)

	var vals []string
	m.Range(func(k collidingKey, v string) bool {
		vals = append(vals, v)
		return true
	})
	expect.EQ(t, vals, []string{"d", "b", "c"})

	vals = nil
	m.Range(func(k collidingKey, v string) bool {
		vals = append(vals, v)
		return len(vals) < 2
	})
	expect.EQ(t, vals, []string{"d", "b"})

	k, v := m.At(2)
	expect.EQ(t, k, collidingKey{[]int{0, 0}})
	expect.EQ(t, v, "c")
}
