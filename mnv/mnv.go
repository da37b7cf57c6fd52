// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package mnv finds multi-nucleotide variants in a multi-sample phased VCF.
// It groups nearby SNV records into windows, recomposes each window's calls
// into canonical per-haplotype allele blocks, and writes the blocks carrying
// several non-reference alleles as TSV.
package mnv

import (
	"context"
	"fmt"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/recompose/encoding/vcf"
	"github.com/grailbio/recompose/interval"
	"github.com/grailbio/recompose/recompose"
)

// Run reads the VCF at vcfPath and writes the recomposed MNVs to outPath.
// Windows that fail recomposition with a precondition error are logged and
// skipped; any other error aborts the run.
func Run(ctx context.Context, vcfPath, outPath string, opts *Opts) (err error) {
	if err = opts.validate(); err != nil {
		return err
	}
	restrict, err := loadRestriction(ctx, opts)
	if err != nil {
		return err
	}
	r, err := vcf.Open(ctx, vcfPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()

	keep := make(map[string]bool, len(opts.KeepFilters))
	for _, f := range opts.KeepFilters {
		keep[f] = true
	}
	var (
		variants                           []variant
		nRecs, nFiltered, nOutside, nNoSNV int
	)
	for r.Scan() {
		rec := r.Record()
		nRecs++
		if !rec.Passes(keep) {
			nFiltered++
			continue
		}
		if restrict != nil && !restrict.Contains(rec.Chrom, interval.PosType(rec.Pos-1)) {
			nOutside++
			continue
		}
		unsupported, ok := unsupportedAlleles(rec)
		if !ok {
			nNoSNV++
			continue
		}
		variants = append(variants, variant{rec: rec, unsupported: unsupported})
	}
	if err = r.Err(); err != nil {
		return err
	}
	log.Printf("%s: %d records, %d filtered, %d outside region, %d without SNV allele",
		vcfPath, nRecs, nFiltered, nOutside, nNoSNV)

	windows := buildWindows(variants, len(r.Samples()), opts.WindowSize)
	results, err := recomposeAll(windows, opts.Parallelism)
	if err != nil {
		return err
	}
	return writeResults(ctx, outPath, r.Samples(), windows, results, opts.MinNonRef)
}

func loadRestriction(ctx context.Context, opts *Opts) (*interval.Set, error) {
	switch {
	case opts.BedPath != "":
		return interval.LoadBED(ctx, opts.BedPath)
	case opts.Region != "":
		entry, err := interval.ParseRegionString(opts.Region)
		if err != nil {
			return nil, errors.E(errors.Invalid, err)
		}
		return interval.NewSet([]interval.Entry{entry})
	}
	return nil, nil
}

// recomposeAll recomposes every window, splitting them into parallelism
// contiguous chunks.  results[i] is nil for a skipped window.
func recomposeAll(windows []*window, parallelism int) ([]*recompose.AlleleBlockMap, error) {
	results := make([]*recompose.AlleleBlockMap, len(windows))
	if len(windows) == 0 {
		return results, nil
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(windows) {
		parallelism = len(windows)
	}
	log.Printf("recomposing %d windows (%d jobs)", len(windows), parallelism)
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(windows)) / parallelism
		endIdx := ((jobIdx + 1) * len(windows)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			w := windows[i]
			m, err := recompose.Recompose(&w.in)
			if err != nil {
				if errors.Is(errors.Precondition, err) {
					log.Error.Printf("%s:%d: skipping window: %v", w.chrom, w.recs[0].Pos, err)
					continue
				}
				return errors.E(err, fmt.Sprintf("%s:%d", w.chrom, w.recs[0].Pos))
			}
			log.Debug.Printf("%s:%d: %d positions, %d allele blocks", w.chrom, w.recs[0].Pos, len(w.recs), m.Len())
			results[i] = m
		}
		return nil
	})
	return results, err
}
