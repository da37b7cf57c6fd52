// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package recompose turns the phased genotype calls of many samples at a
// cluster of nearby positions into canonical per-haplotype allele blocks, so
// that adjacent single-nucleotide calls forming one multi-nucleotide variant
// can be reported together.
//
// A Window is processed in three steps, in this order: Dedup groups samples
// carrying identical genotype runs, Extract cuts those runs into
// haplotype-consistent allele blocks and links siblings, and Merge unifies
// blocks that differ only by reference padding.  Recompose runs all three.
// Nothing is shared between windows, so distinct windows may be processed
// concurrently.
package recompose

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/recompose/genotype"
	"github.com/grailbio/recompose/util"
)

// Window is the input for one cluster of nearby positions.  All per-position
// slices are indexed by window offset.
type Window struct {
	// Starts[i] is the coordinate of position i.  Starts is sorted.
	Starts []int
	// UpperBounds[i] is the last coordinate still in the recomposition
	// window anchored at position i.
	UpperBounds []int
	// Genotypes[s][i] is sample s's call at position i.
	Genotypes [][]genotype.Genotype
	// PhaseSets[s][i] is the PS of Genotypes[s][i].  PhaseSets, or any of
	// its rows, may be nil when phase sets are not available.
	PhaseSets [][]genotype.PhaseSet
	// Unsupported[i] holds the ALT alleles at position i that may not be
	// recomposed.  It may be nil.
	Unsupported []AlleleSet
}

// Len returns the number of positions in the window.
func (w *Window) Len() int { return len(w.Starts) }

func (w *Window) validate() error {
	n := len(w.Starts)
	if len(w.UpperBounds) != n {
		return errors.E(errors.Invalid,
			fmt.Sprintf("recompose: %d upper bounds for %d positions", len(w.UpperBounds), n))
	}
	if w.Unsupported != nil && len(w.Unsupported) != n {
		return errors.E(errors.Invalid,
			fmt.Sprintf("recompose: %d unsupported-allele sets for %d positions", len(w.Unsupported), n))
	}
	if w.PhaseSets != nil && len(w.PhaseSets) != len(w.Genotypes) {
		return errors.E(errors.Invalid,
			fmt.Sprintf("recompose: %d phase set rows for %d samples", len(w.PhaseSets), len(w.Genotypes)))
	}
	for s, gts := range w.Genotypes {
		if len(gts) != n {
			return errors.E(errors.Invalid,
				fmt.Sprintf("recompose: sample %d has %d genotypes for %d positions", s, len(gts), n))
		}
		if w.PhaseSets != nil && w.PhaseSets[s] != nil && len(w.PhaseSets[s]) != n {
			return errors.E(errors.Invalid,
				fmt.Sprintf("recompose: sample %d has %d phase sets for %d positions", s, len(w.PhaseSets[s]), n))
		}
	}
	return nil
}

// Dedup groups the samples of w by genotype block, after demoting calls
// whose phase set disagrees with the rest of the sample's window.  The
// result iterates in order of the first sample carrying each block, and each
// sample list is ascending.
func Dedup(w *Window) *util.OrderedMap[genotype.Block, []int] {
	blocks := util.NewOrderedMap[genotype.Block, []int]()
	for s, gts := range w.Genotypes {
		if w.PhaseSets != nil {
			gts = genotype.NormalizePhaseSets(gts, w.PhaseSets[s])
		}
		b := genotype.NewBlock(gts)
		samples, _ := blocks.Get(b)
		blocks.Put(b, append(samples, s))
	}
	return blocks
}

// Recompose returns the canonical allele blocks of w and their owners.  It
// returns an errors.Invalid error if the slices of w disagree in length, and
// an errors.Precondition error if padding reconciliation fails; in both
// cases the window should be skipped.
func Recompose(w *Window) (*AlleleBlockMap, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	blocks, siblings := Extract(Dedup(w), w.Unsupported, w.Starts, w.UpperBounds)
	return Merge(blocks, siblings)
}
