// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recompose

import (
	"github.com/grailbio/recompose/circular"
	"github.com/grailbio/recompose/graph"
	"v.io/x/lib/vlog"
)

// Merge folds allele blocks that differ only by reference padding into one
// canonical block.
//
// Components of the sibling graph are visited in key order.  The blocks of
// the first component that matches no earlier canonical block ("seed")
// become seeds themselves.  A later component with a member that, widened by
// reference positions within its padding budget, equals a live seed is
// widened as a whole by the same amounts, and its owners are folded into the
// seed's entry.  Every block of the result has Finalized paddings, and the
// owners of the input are conserved.
//
// Merge returns an errors.Precondition error if a block would have to absorb
// more reference positions than its padding allows.
func Merge(blocks *AlleleBlockMap, siblings *graph.Graph[AlleleBlock]) (*AlleleBlockMap, error) {
	out := NewAlleleBlockMap()
	var seeds circular.Queue[AlleleBlock]
	for _, comp := range siblings.Components() {
		first := comp.Members[0].PositionIndex
		seeds.Filter(func(s AlleleBlock) bool { return s.End() >= first })

		before, after, found := findSeed(&seeds, comp.Members)
		if found {
			vlog.VI(2).Infof("recompose: component %d: extending %d blocks by (%d, %d)",
				comp.Key, len(comp.Members), before, after)
		}
		for _, b := range comp.Members {
			ext, err := b.Extend(before, after)
			if err != nil {
				return nil, err
			}
			owners, _ := blocks.Get(b)
			out.Add(ext, owners)
			if !found {
				seeds.PushBack(ext)
			}
		}
	}
	return out, nil
}

// findSeed searches seeds oldest first for one that a member of the
// component can be widened into.
func findSeed(seeds *circular.Queue[AlleleBlock], members []AlleleBlock) (before, after int, found bool) {
	for i := 0; i < seeds.Len(); i++ {
		seed := seeds.At(i)
		for _, b := range members {
			if l, r, ok := b.CanBeSame(seed); ok {
				return l, r, true
			}
		}
	}
	return 0, 0, false
}
