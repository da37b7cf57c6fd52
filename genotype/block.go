// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package genotype

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"
)

// Block is one sample's ordered run of calls across consecutive positions of
// a window.  PosIndex is the offset of the first call within the window's
// position array.  Blocks are immutable values; Equal and Hash make them
// usable as deduplication keys across samples.
type Block struct {
	PosIndex  int
	Genotypes []Genotype
}

// NewBlock returns the block covering all of gts, starting at window offset 0.
func NewBlock(gts []Genotype) Block {
	return Block{Genotypes: gts}
}

// Len returns the number of positions covered by the block.
func (b Block) Len() int { return len(b.Genotypes) }

// Sub returns the sub-block covering [start, end) relative to b.
func (b Block) Sub(start, end int) Block {
	return Block{PosIndex: b.PosIndex + start, Genotypes: b.Genotypes[start:end]}
}

// MaxPloidy returns the largest allele count among the block's calls.  A
// transient drop (e.g. a half-call) does not lower the block's ploidy.
func (b Block) MaxPloidy() int {
	ploidy := 0
	for _, g := range b.Genotypes {
		if p := g.Ploidy(); p > ploidy {
			ploidy = p
		}
	}
	return ploidy
}

// Equal returns true iff both blocks start at the same offset and carry
// pairwise-equal genotypes.
func (b Block) Equal(o Block) bool {
	if b.PosIndex != o.PosIndex || len(b.Genotypes) != len(o.Genotypes) {
		return false
	}
	for i, g := range b.Genotypes {
		if !g.Equal(o.Genotypes[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal: the phased flag only
// contributes for heterozygous calls.
func (b Block) Hash() uint64 {
	buf := make([]byte, 0, 8+len(b.Genotypes)*12)
	buf = binary.AppendVarint(buf, int64(b.PosIndex))
	for _, g := range b.Genotypes {
		buf = binary.AppendUvarint(buf, uint64(len(g.AlleleIndexes)))
		for _, a := range g.AlleleIndexes {
			buf = binary.AppendVarint(buf, int64(a))
		}
		if g.Phased && !g.Homozygous() {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return farm.Hash64(buf)
}

// Split cuts b into the maximal sub-blocks that every haplotype agrees may
// be recomposed together, and drops the ones covering a single position
// (a single position cannot encode an MNV).
//
// starts[i] is the coordinate of window position i, and upperBounds[i] is the
// last coordinate still inside the recomposition window anchored at position
// i.  Both are indexed by window offset, not by offset within b.
func (b Block) Split(starts, upperBounds []int) []Block {
	var blocks []Block
	for _, r := range b.runs(starts, upperBounds) {
		if r[1]-r[0] < 2 {
			continue
		}
		blocks = append(blocks, b.Sub(r[0], r[1]))
	}
	return blocks
}

// runs returns the [start, end) ranges of b between genuine breaks,
// including single-position ranges.
func (b Block) runs(starts, upperBounds []int) [][2]int {
	n := len(b.Genotypes)
	if n == 0 {
		return nil
	}
	// breaks[i] refers to the boundary between positions i and i+1.
	breaks := make([]bool, n-1)
	for i := range breaks {
		breaks[i] = true
	}
	hapBreaks := make([]bool, n-1)
	for h := 0; h < b.MaxPloidy(); h++ {
		b.haplotypeBreaks(h, starts, upperBounds, hapBreaks)
		// A single haplotype that keeps a boundary open keeps it open for all.
		for i, br := range hapBreaks {
			breaks[i] = breaks[i] && br
		}
	}
	var runs [][2]int
	start := 0
	for i, br := range breaks {
		if br {
			runs = append(runs, [2]int{start, i + 1})
			start = i + 1
		}
	}
	return append(runs, [2]int{start, n})
}

// haplotypeBreaks fills br with the boundaries haplotype h would cut at.
func (b Block) haplotypeBreaks(h int, starts, upperBounds []int, br []bool) {
	for i := range br {
		br[i] = false
	}
	n := len(b.Genotypes)
	lastNonRef := -1
	for i, g := range b.Genotypes {
		if g.Allele(h) == 0 {
			if i == n-1 {
				if i > 0 {
					b.breakBackward(h, br, i-1)
				}
			} else if i == 0 || br[i-1] {
				br[i] = true
			}
			continue
		}
		if lastNonRef >= 0 && upperBounds[b.PosIndex+lastNonRef] < starts[b.PosIndex+i] {
			b.breakBackward(h, br, i-1)
		}
		lastNonRef = i
	}
}

// breakBackward breaks boundary k and then every still-open boundary in
// front of the contiguous reference run ending at position k.
func (b Block) breakBackward(h int, br []bool, k int) {
	br[k] = true
	for ; k > 0 && b.Genotypes[k].Allele(h) == 0 && !br[k-1]; k-- {
		br[k-1] = true
	}
}
