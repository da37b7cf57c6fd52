// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package genotype

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func parseAll(tokens ...string) []Genotype {
	gts := make([]Genotype, len(tokens))
	for i, tok := range tokens {
		gts[i] = Parse(tok)
	}
	return gts
}

// contiguous returns starts at consecutive coordinates and upper bounds that
// keep every position inside a window of the given span.
func contiguous(n, first, span int) (starts, upperBounds []int) {
	for i := 0; i < n; i++ {
		starts = append(starts, first+i)
		upperBounds = append(upperBounds, first+i+span-1)
	}
	return
}

func TestBlockEqualHash(t *testing.T) {
	a := Block{PosIndex: 2, Genotypes: parseAll("0/0", "0|1", "1/1")}
	b := Block{PosIndex: 2, Genotypes: parseAll("0|0", "0|1", "1|1")}
	c := Block{PosIndex: 2, Genotypes: parseAll("0|0", "1|0", "1|1")}
	d := Block{PosIndex: 3, Genotypes: parseAll("0/0", "0|1", "1/1")}
	expect.True(t, a.Equal(b))
	expect.EQ(t, a.Hash(), b.Hash())
	expect.False(t, a.Equal(c))
	expect.False(t, a.Equal(d))
	expect.NEQ(t, a.Hash(), d.Hash())
}

func TestBlockSub(t *testing.T) {
	b := Block{PosIndex: 1, Genotypes: parseAll("0|1", "1|1", "0|1", "1|0")}
	expect.EQ(t, b.Sub(1, 3), Block{PosIndex: 2, Genotypes: parseAll("1|1", "0|1")})
	expect.EQ(t, b.MaxPloidy(), 2)
}

// A window boundary between the 2nd and 3rd positions cuts the run there.
func TestSplitWindowBoundary(t *testing.T) {
	b := NewBlock(parseAll("0|1", "1|1", "0|1"))
	starts := []int{100, 101, 102}
	upperBounds := []int{101, 101, 102}
	expect.EQ(t, b.runs(starts, upperBounds), [][2]int{{0, 2}, {2, 3}})
	expect.EQ(t, b.Split(starts, upperBounds), []Block{{PosIndex: 0, Genotypes: parseAll("0|1", "1|1")}})

	// With four positions both halves survive.
	b = NewBlock(parseAll("0|1", "1|1", "1|1", "0|1"))
	starts = []int{100, 101, 102, 103}
	upperBounds = []int{101, 101, 103, 103}
	expect.EQ(t, b.Split(starts, upperBounds), []Block{
		{PosIndex: 0, Genotypes: parseAll("0|1", "1|1")},
		{PosIndex: 2, Genotypes: parseAll("1|1", "0|1")},
	})
}

func TestSplitNoBoundary(t *testing.T) {
	b := Block{PosIndex: 1, Genotypes: parseAll("0|1", "1|1", "1|0")}
	starts, upperBounds := contiguous(5, 1000, 10)
	expect.EQ(t, b.Split(starts, upperBounds), []Block{b})
}

// Leading and trailing reference calls on every haplotype are trimmed off,
// leaving single positions that are then dropped.
func TestSplitTrimsReference(t *testing.T) {
	starts, upperBounds := contiguous(5, 1000, 10)
	b := NewBlock(parseAll("0|0", "0|0", "1|1", "1|0", "0|0"))
	expect.EQ(t, b.runs(starts, upperBounds), [][2]int{{0, 1}, {1, 2}, {2, 4}, {4, 5}})
	expect.EQ(t, b.Split(starts, upperBounds), []Block{b.Sub(2, 4)})

	// One haplotype carrying an alt keeps the leading boundary open for both.
	b = NewBlock(parseAll("0|1", "0|0", "1|1"))
	expect.EQ(t, b.Split(starts, upperBounds), []Block{b})
}

// Length-1 runs never come out of Split, even when they carry an alt.
func TestSplitDropsSinglePositions(t *testing.T) {
	b := NewBlock(parseAll("1|1", "1|1", "0|0", "1|1"))
	starts := []int{100, 101, 150, 151}
	upperBounds := []int{102, 103, 152, 153}
	expect.EQ(t, b.runs(starts, upperBounds), [][2]int{{0, 2}, {2, 3}, {3, 4}})
	expect.EQ(t, b.Split(starts, upperBounds), []Block{b.Sub(0, 2)})

	expect.EQ(t, len(NewBlock(parseAll("1|1")).Split(starts, upperBounds)), 0)
	expect.EQ(t, len(NewBlock(nil).Split(starts, upperBounds)), 0)
}

// A reference gap between two distant alts is isolated from both.
func TestSplitDistantAlts(t *testing.T) {
	b := NewBlock(parseAll("1", "0", "0", "1"))
	starts := []int{10, 11, 12, 20}
	upperBounds := []int{12, 13, 14, 22}
	expect.EQ(t, b.runs(starts, upperBounds), [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}})
	expect.EQ(t, len(b.Split(starts, upperBounds)), 0)
}
