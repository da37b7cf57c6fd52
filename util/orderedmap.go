// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package util

// Hashable is implemented by immutable value types that can key an
// OrderedMap.  Hash must agree with Equal: equal values hash equally.
type Hashable[K any] interface {
	Hash() uint64
	Equal(K) bool
}

type orderedMapEntry[K any, V any] struct {
	key K
	val V
}

// OrderedMap maps value-equal keys to values and iterates in first-insertion
// order.  Keys whose natural Go equality is unsuitable (e.g. structs holding
// slices) are matched with Hash/Equal.  Replacing the value of an existing
// key keeps its position.  An OrderedMap is not threadsafe.
type OrderedMap[K Hashable[K], V any] struct {
	entries []orderedMapEntry[K, V]
	// buckets maps a key hash to indexes into entries.
	buckets map[uint64][]int
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[K Hashable[K], V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{buckets: make(map[uint64][]int)}
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int { return len(m.entries) }

// Index returns the insertion index of k, and false if k is absent.
func (m *OrderedMap[K, V]) Index(k K) (int, bool) {
	for _, i := range m.buckets[k.Hash()] {
		if m.entries[i].key.Equal(k) {
			return i, true
		}
	}
	return -1, false
}

// Get returns the value stored for k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	if i, ok := m.Index(k); ok {
		return m.entries[i].val, true
	}
	var zero V
	return zero, false
}

// Put stores v under k and returns k's insertion index.
func (m *OrderedMap[K, V]) Put(k K, v V) int {
	h := k.Hash()
	for _, i := range m.buckets[h] {
		if m.entries[i].key.Equal(k) {
			m.entries[i].val = v
			return i
		}
	}
	i := len(m.entries)
	m.entries = append(m.entries, orderedMapEntry[K, V]{key: k, val: v})
	m.buckets[h] = append(m.buckets[h], i)
	return i
}

// At returns the i-th inserted key and its value.
func (m *OrderedMap[K, V]) At(i int) (K, V) {
	e := m.entries[i]
	return e.key, e.val
}

// Range calls fn on every entry in insertion order until fn returns false.
func (m *OrderedMap[K, V]) Range(fn func(k K, v V) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.val) {
			return
		}
	}
}
