// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package mnv

import (
	"github.com/grailbio/recompose/encoding/vcf"
	"github.com/grailbio/recompose/recompose"
)

func isBase(s string) bool {
	if len(s) != 1 {
		return false
	}
	switch s[0] {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return true
	}
	return false
}

// unsupportedAlleles returns the 1-based ALT alleles of rec that cannot be
// part of a recomposed MNV, and whether any ALT allele can.  Only SNVs are
// supported; symbolic, breakend, spanning-deletion, indel and MNP alleles are
// not.
func unsupportedAlleles(rec *vcf.Record) (recompose.AlleleSet, bool) {
	var (
		unsupported recompose.AlleleSet
		anySNV      bool
	)
	refIsBase := isBase(rec.Ref)
	for i, alt := range rec.Alts {
		if refIsBase && isBase(alt) && alt[0]|0x20 != rec.Ref[0]|0x20 {
			anySNV = true
			continue
		}
		if unsupported == nil {
			unsupported = make(recompose.AlleleSet)
		}
		unsupported[i+1] = true
	}
	return unsupported, anySNV
}
