// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recompose

import "strconv"

// RefPadding is the number of homozygous-reference positions that adjoin an
// allele block inside the safe run it was extracted from, i.e. how far the
// block may be widened without changing what it asserts.  A finalized padding
// belongs to a canonical block and allows no widening at all.
//
// The zero value is a padding of 0.
type RefPadding struct {
	count     int
	finalized bool
}

// Finalized is the padding of a canonical, non-extendable block.
var Finalized = RefPadding{finalized: true}

// Padding returns a padding of n reference positions.  n must be >= 0.
func Padding(n int) RefPadding {
	if n < 0 {
		panic("recompose: negative padding " + strconv.Itoa(n))
	}
	return RefPadding{count: n}
}

// Final returns true for Finalized.
func (p RefPadding) Final() bool { return p.finalized }

// Count returns the number of positions the block may still absorb on this
// side.  It is 0 for Finalized.
func (p RefPadding) Count() int {
	if p.finalized {
		return 0
	}
	return p.count
}

// rank maps p onto an int that sorts Finalized before every count.
func (p RefPadding) rank() int {
	if p.finalized {
		return -1
	}
	return p.count
}

func (p RefPadding) compare(o RefPadding) int {
	return p.rank() - o.rank()
}

// String implements fmt.Stringer.
func (p RefPadding) String() string {
	if p.finalized {
		return "final"
	}
	return strconv.Itoa(p.count)
}
