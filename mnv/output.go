// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package mnv

import (
	"context"
	"runtime"
	"strconv"
	"strings"

	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/recompose/recompose"
)

const outputHeader = "#CHROM\tPOS\tEND\tPOSITIONS\tREF\tALT\tSAMPLES"

// writeResults writes one TSV row per allele block with at least minNonRef
// non-reference positions.  Windows are written in order, and blocks within a
// window in AlleleBlock order.  Output paths ending in .gz are bgzipped.
func writeResults(ctx context.Context, outPath string, samples []string, windows []*window, results []*recompose.AlleleBlockMap, minNonRef int) (err error) {
	var dst file.File
	if dst, err = file.Create(ctx, outPath); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, dst, &err)

	var tsvw *tsv.Writer
	if !strings.HasSuffix(outPath, ".gz") {
		tsvw = tsv.NewWriter(dst.Writer(ctx))
	} else {
		bgzfw := bgzf.NewWriter(dst.Writer(ctx), runtime.NumCPU())
		tsvw = tsv.NewWriter(bgzfw)
		defer func() {
			if e := bgzfw.Close(); e != nil && err == nil {
				err = e
			}
		}()
	}
	tsvw.WriteString(outputHeader)
	if err = tsvw.EndLine(); err != nil {
		return
	}
	nRows := 0
	for i, w := range windows {
		if results[i] == nil {
			continue
		}
		for _, b := range results[i].Sorted() {
			if b.NonRef() < minNonRef {
				continue
			}
			owners, _ := results[i].Get(b)
			writeBlock(tsvw, w, b, owners, samples)
			if err = tsvw.EndLine(); err != nil {
				return
			}
			nRows++
		}
	}
	// Flush before the deferred bgzf and file Close calls run.
	if err = tsvw.Flush(); err != nil {
		return
	}
	log.Printf("%s: wrote %d MNV rows", outPath, nRows)
	return
}

func writeBlock(tsvw *tsv.Writer, w *window, b recompose.AlleleBlock, owners []recompose.SampleHaplotype, samples []string) {
	recs := w.recs[b.PositionIndex : b.End()+1]
	positions := make([]string, len(recs))
	refs := make([]string, len(recs))
	alts := make([]string, len(recs))
	for i, rec := range recs {
		positions[i] = strconv.Itoa(rec.Pos)
		refs[i] = rec.Ref
		if a := b.AlleleIndexes[i]; a == 0 {
			alts[i] = rec.Ref
		} else {
			alts[i] = rec.Alts[a-1]
		}
	}
	names := make([]string, len(owners))
	for i, o := range owners {
		names[i] = samples[o.Sample] + ":" + strconv.Itoa(o.Haplotype)
	}
	tsvw.WriteString(w.chrom)
	tsvw.WriteUint32(uint32(recs[0].Pos))
	tsvw.WriteUint32(uint32(recs[len(recs)-1].Pos))
	tsvw.WriteString(strings.Join(positions, ","))
	tsvw.WriteString(strings.Join(refs, ","))
	tsvw.WriteString(strings.Join(alts, ","))
	tsvw.WriteString(strings.Join(names, ","))
}
