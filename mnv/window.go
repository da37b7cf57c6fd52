// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package mnv

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/recompose/encoding/vcf"
	"github.com/grailbio/recompose/genotype"
	"github.com/grailbio/recompose/recompose"
)

// variant is a record with at least one SNV allele.
type variant struct {
	rec         *vcf.Record
	unsupported recompose.AlleleSet
}

// window is a cluster of nearby variants on one chromosome, and the input
// recompose needs for it.
type window struct {
	chrom string
	recs  []*vcf.Record
	in    recompose.Window
}

// buildWindows groups variants into windows.  Chromosomes are visited in order
// of first appearance, and variants within a chromosome by position.  A
// variant joins the current window iff it starts no later than the last base
// of the windowSize-base span of some variant already in it; windows of a
// single variant are dropped.  A second variant at an already seen position is
// skipped.
func buildWindows(variants []variant, nSamples, windowSize int) []*window {
	var (
		chroms []string
		byChr  = make(map[string][]variant)
	)
	for _, v := range variants {
		if _, ok := byChr[v.rec.Chrom]; !ok {
			chroms = append(chroms, v.rec.Chrom)
		}
		byChr[v.rec.Chrom] = append(byChr[v.rec.Chrom], v)
	}

	var windows []*window
	for _, chrom := range chroms {
		vs := byChr[chrom]
		sort.SliceStable(vs, func(i, j int) bool { return vs[i].rec.Pos < vs[j].rec.Pos })
		var (
			cur     []variant
			maxUB   int
			lastPos = -1
		)
		for _, v := range vs {
			if v.rec.Pos == lastPos {
				log.Error.Printf("%s:%d: skipping duplicate record", chrom, v.rec.Pos)
				continue
			}
			lastPos = v.rec.Pos
			if len(cur) > 0 && v.rec.Pos > maxUB {
				if len(cur) >= 2 {
					windows = append(windows, newWindow(chrom, cur, nSamples, windowSize))
				}
				cur = cur[:0:0]
			}
			cur = append(cur, v)
			if ub := v.rec.Pos + windowSize - 1; len(cur) == 1 || ub > maxUB {
				maxUB = ub
			}
		}
		if len(cur) >= 2 {
			windows = append(windows, newWindow(chrom, cur, nSamples, windowSize))
		}
	}
	return windows
}

func newWindow(chrom string, vs []variant, nSamples, windowSize int) *window {
	n := len(vs)
	w := &window{
		chrom: chrom,
		recs:  make([]*vcf.Record, n),
		in: recompose.Window{
			Starts:      make([]int, n),
			UpperBounds: make([]int, n),
			Genotypes:   make([][]genotype.Genotype, nSamples),
			PhaseSets:   make([][]genotype.PhaseSet, nSamples),
			Unsupported: make([]recompose.AlleleSet, n),
		},
	}
	for s := 0; s < nSamples; s++ {
		w.in.Genotypes[s] = make([]genotype.Genotype, n)
		w.in.PhaseSets[s] = make([]genotype.PhaseSet, n)
	}
	for i, v := range vs {
		w.recs[i] = v.rec
		w.in.Starts[i] = v.rec.Pos
		w.in.UpperBounds[i] = v.rec.Pos + windowSize - 1
		w.in.Unsupported[i] = v.unsupported
		for s := 0; s < nSamples; s++ {
			w.in.Genotypes[s][i] = parseGenotype(v.rec.GT[s], len(v.rec.Alts))
			w.in.PhaseSets[s][i] = genotype.ParsePhaseSet(v.rec.PS[s])
		}
	}
	return w
}

// parseGenotype parses a GT token, treating alleles past the record's ALT
// list as missing.
func parseGenotype(token string, nAlts int) genotype.Genotype {
	g := genotype.Parse(token)
	for k, a := range g.AlleleIndexes {
		if a > nAlts {
			g.AlleleIndexes[k] = genotype.Missing
		}
	}
	return g
}
