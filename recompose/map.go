// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recompose

import (
	"github.com/biogo/store/llrb"
	"github.com/grailbio/recompose/util"
)

// AlleleBlockMap maps allele blocks to the sample haplotypes that carry them.
// It iterates in first-insertion order.  An AlleleBlockMap is not threadsafe.
type AlleleBlockMap struct {
	m *util.OrderedMap[AlleleBlock, []SampleHaplotype]
}

// NewAlleleBlockMap returns an empty map.
func NewAlleleBlockMap() *AlleleBlockMap {
	return &AlleleBlockMap{m: util.NewOrderedMap[AlleleBlock, []SampleHaplotype]()}
}

// Len returns the number of distinct blocks.
func (m *AlleleBlockMap) Len() int { return m.m.Len() }

// Get returns the owners of b.
func (m *AlleleBlockMap) Get(b AlleleBlock) ([]SampleHaplotype, bool) {
	return m.m.Get(b)
}

// Add appends owners to the owners of b, inserting b if needed.
func (m *AlleleBlockMap) Add(b AlleleBlock, owners []SampleHaplotype) {
	cur, _ := m.m.Get(b)
	merged := make([]SampleHaplotype, 0, len(cur)+len(owners))
	merged = append(merged, cur...)
	merged = append(merged, owners...)
	m.m.Put(b, merged)
}

// Range calls fn on every block in insertion order until fn returns false.
func (m *AlleleBlockMap) Range(fn func(b AlleleBlock, owners []SampleHaplotype) bool) {
	m.m.Range(fn)
}

// NumOwners returns the total number of owner entries across all blocks.
func (m *AlleleBlockMap) NumOwners() int {
	n := 0
	m.m.Range(func(_ AlleleBlock, owners []SampleHaplotype) bool {
		n += len(owners)
		return true
	})
	return n
}

// Sorted returns the blocks in AlleleBlock.Compare order.
func (m *AlleleBlockMap) Sorted() []AlleleBlock {
	tree := llrb.Tree{}
	m.m.Range(func(b AlleleBlock, _ []SampleHaplotype) bool {
		tree.Insert(b)
		return true
	})
	blocks := make([]AlleleBlock, 0, tree.Len())
	tree.Do(func(c llrb.Comparable) bool {
		blocks = append(blocks, c.(AlleleBlock))
		return false
	})
	return blocks
}
