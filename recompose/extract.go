// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package recompose

import (
	"github.com/grailbio/recompose/genotype"
	"github.com/grailbio/recompose/graph"
	"github.com/grailbio/recompose/util"
)

// Extract turns deduplicated genotype blocks into per-haplotype allele
// blocks.  blocks maps each distinct genotype block to the samples carrying
// it, and is visited in insertion order.  unsupported[i] holds the ALT
// alleles at window position i that cannot be recomposed; it may be nil.
//
// Each block is first cut at every position where recomposition is unsafe: a
// call with fewer copies than the block's ploidy, a missing or unsupported
// allele, or an unphased heterozygous call.  The safe runs are then split at
// window boundaries with genotype.Block.Split, and every resulting fragment
// yields one AlleleBlock per haplotype.  AlleleBlocks from the same fragment
// are connected in the returned sibling graph; every extracted block is a
// node of the graph.
func Extract(
	blocks *util.OrderedMap[genotype.Block, []int],
	unsupported []AlleleSet,
	starts, upperBounds []int,
) (*AlleleBlockMap, *graph.Graph[AlleleBlock]) {
	x := extractor{
		unsupported: unsupported,
		starts:      starts,
		upperBounds: upperBounds,
		blocks:      NewAlleleBlockMap(),
		siblings:    graph.New[AlleleBlock](),
	}
	blocks.Range(func(b genotype.Block, samples []int) bool {
		x.addBlock(b, samples)
		return true
	})
	return x.blocks, x.siblings
}

type extractor struct {
	unsupported         []AlleleSet
	starts, upperBounds []int

	blocks   *AlleleBlockMap
	siblings *graph.Graph[AlleleBlock]
}

func (x *extractor) addBlock(b genotype.Block, samples []int) {
	ploidy := b.MaxPloidy()
	runStart := 0
	for i, g := range b.Genotypes {
		if x.safe(b.PosIndex+i, g, ploidy) {
			continue
		}
		x.addRun(b.Sub(runStart, i), ploidy, samples)
		runStart = i + 1
	}
	x.addRun(b.Sub(runStart, b.Len()), ploidy, samples)
}

// safe returns true iff g, at window position pos, may be part of a
// recomposed run of the given ploidy.
func (x *extractor) safe(pos int, g genotype.Genotype, ploidy int) bool {
	if g.Ploidy() < ploidy {
		return false
	}
	for _, a := range g.AlleleIndexes {
		if a == genotype.Missing {
			return false
		}
		if pos < len(x.unsupported) && x.unsupported[pos].Contains(a) {
			return false
		}
	}
	return g.Phased || g.Homozygous()
}

// addRun extracts the fragments of the safe run.
func (x *extractor) addRun(run genotype.Block, ploidy int, samples []int) {
	if run.Len() < 2 {
		return
	}
	for _, frag := range run.Split(x.starts, x.upperBounds) {
		start := frag.PosIndex - run.PosIndex
		end := start + frag.Len()
		before, after := 0, 0
		for k := start - 1; k >= 0 && run.Genotypes[k].HomozygousRef(); k-- {
			before++
		}
		for k := end; k < run.Len() && run.Genotypes[k].HomozygousRef(); k++ {
			after++
		}

		haps := make([]AlleleBlock, ploidy)
		for h := range haps {
			alleles := make([]int, frag.Len())
			for i, g := range frag.Genotypes {
				alleles[i] = g.Allele(h)
			}
			haps[h] = AlleleBlock{
				PositionIndex: frag.PosIndex,
				AlleleIndexes: alleles,
				RefBefore:     Padding(before),
				RefAfter:      Padding(after),
			}
			owners := make([]SampleHaplotype, len(samples))
			for i, s := range samples {
				owners[i] = SampleHaplotype{Sample: s, Haplotype: h}
			}
			x.blocks.Add(haps[h], owners)
			x.siblings.AddNode(haps[h])
		}
		for i := range haps {
			for j := i + 1; j < len(haps); j++ {
				x.siblings.AddEdge(haps[i], haps[j])
			}
		}
	}
}
