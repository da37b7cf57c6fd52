// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recompose

import (
	"encoding/binary"
	"fmt"

	"github.com/biogo/store/llrb"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
)

// AlleleBlock is one haplotype's allele calls across a run of consecutive
// window positions.  It is the unit of recomposition.  AlleleBlocks are
// immutable values: AlleleIndexes must not be modified once the block is
// built.
type AlleleBlock struct {
	// PositionIndex is the window offset of the first covered position.
	PositionIndex int
	// AlleleIndexes[i] is the haplotype's allele at PositionIndex+i.
	AlleleIndexes []int
	// RefBefore and RefAfter are the reference positions the block may absorb
	// on either side.
	RefBefore, RefAfter RefPadding
}

// Len returns the number of covered positions.
func (b AlleleBlock) Len() int { return len(b.AlleleIndexes) }

// End returns the window offset of the last covered position.
func (b AlleleBlock) End() int { return b.PositionIndex + len(b.AlleleIndexes) - 1 }

// NonRef returns the number of positions with a non-reference allele.
func (b AlleleBlock) NonRef() int {
	n := 0
	for _, a := range b.AlleleIndexes {
		if a != 0 {
			n++
		}
	}
	return n
}

// Equal returns true iff both blocks have the same position, paddings and
// allele sequence.
func (b AlleleBlock) Equal(o AlleleBlock) bool {
	return b.Compare(o) == 0
}

// Hash returns a hash consistent with Equal.
func (b AlleleBlock) Hash() uint64 {
	buf := make([]byte, 0, 24+len(b.AlleleIndexes)*2)
	buf = binary.AppendVarint(buf, int64(b.PositionIndex))
	buf = binary.AppendVarint(buf, int64(b.RefBefore.rank()))
	buf = binary.AppendVarint(buf, int64(b.RefAfter.rank()))
	for _, a := range b.AlleleIndexes {
		buf = binary.AppendVarint(buf, int64(a))
	}
	return farm.Hash64(buf)
}

// Compare implements llrb.Comparable.  Blocks are ordered by ascending
// position, then descending length, then ascending RefBefore, then
// descending RefAfter, and finally by allele indexes.  It returns 0 iff the
// blocks are Equal.
func (b AlleleBlock) Compare(c llrb.Comparable) int {
	o := c.(AlleleBlock)
	if diff := b.PositionIndex - o.PositionIndex; diff != 0 {
		return diff
	}
	if diff := len(o.AlleleIndexes) - len(b.AlleleIndexes); diff != 0 {
		return diff
	}
	if diff := b.RefBefore.compare(o.RefBefore); diff != 0 {
		return diff
	}
	if diff := o.RefAfter.compare(b.RefAfter); diff != 0 {
		return diff
	}
	for i, a := range b.AlleleIndexes {
		if diff := a - o.AlleleIndexes[i]; diff != 0 {
			return diff
		}
	}
	return 0
}

// Extend returns the canonical block obtained by absorbing before reference
// positions on the left and after on the right.  Both paddings of the result
// are Finalized.  Absorbing more than the block's padding budget is a
// precondition error: it means the padding was computed incorrectly.
func (b AlleleBlock) Extend(before, after int) (AlleleBlock, error) {
	if before < 0 || after < 0 || before > b.RefBefore.Count() || after > b.RefAfter.Count() {
		return AlleleBlock{}, errors.E(errors.Precondition,
			fmt.Sprintf("recompose: cannot extend %v by (%d, %d)", b, before, after))
	}
	alleles := make([]int, before+len(b.AlleleIndexes)+after)
	copy(alleles[before:], b.AlleleIndexes)
	return AlleleBlock{
		PositionIndex: b.PositionIndex - before,
		AlleleIndexes: alleles,
		RefBefore:     Finalized,
		RefAfter:      Finalized,
	}, nil
}

// CanBeSame returns true iff b, once widened by reference positions within
// its padding budget, becomes exactly the span and alleles of seed.  It also
// returns the number of positions to absorb on each side.
func (b AlleleBlock) CanBeSame(seed AlleleBlock) (before, after int, ok bool) {
	before = b.PositionIndex - seed.PositionIndex
	after = seed.End() - b.End()
	if before < 0 || after < 0 || before > b.RefBefore.Count() || after > b.RefAfter.Count() {
		return 0, 0, false
	}
	for i := 0; i < before; i++ {
		if seed.AlleleIndexes[i] != 0 {
			return 0, 0, false
		}
	}
	for i, a := range b.AlleleIndexes {
		if seed.AlleleIndexes[before+i] != a {
			return 0, 0, false
		}
	}
	for i := before + len(b.AlleleIndexes); i < len(seed.AlleleIndexes); i++ {
		if seed.AlleleIndexes[i] != 0 {
			return 0, 0, false
		}
	}
	return before, after, true
}

// String implements fmt.Stringer.
func (b AlleleBlock) String() string {
	return fmt.Sprintf("%d:%v(%v,%v)", b.PositionIndex, b.AlleleIndexes, b.RefBefore, b.RefAfter)
}

// SampleHaplotype identifies one chromosome copy of one sample.
type SampleHaplotype struct {
	Sample    int
	Haplotype int
}

// String implements fmt.Stringer.
func (s SampleHaplotype) String() string {
	return fmt.Sprintf("%d:%d", s.Sample, s.Haplotype)
}

// AlleleSet is a set of 1-based ALT allele indexes.  The nil set is empty.
type AlleleSet map[int]bool

// Contains returns true iff a is in the set.
func (s AlleleSet) Contains(a int) bool { return s[a] }
