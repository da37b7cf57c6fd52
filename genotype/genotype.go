// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package genotype

import (
	"strconv"
	"strings"
)

// Missing is the allele index assigned to a '.' or otherwise unparseable
// allele in a GT token.
const Missing = -1

// Genotype is one sample's call at one position.  It is immutable after
// Parse; AlleleIndexes must not be modified.
type Genotype struct {
	// AlleleIndexes has one entry per chromosome copy: 0 is the reference
	// allele, k > 0 is the k-th ALT allele, and Missing is an uncalled copy.
	AlleleIndexes []int
	// Phased is true for '|'-separated calls and for single-copy calls.
	Phased bool
}

// Parse converts a GT token such as "0|1", "1/.", or "1" into a Genotype.
// The separator is the first character that is neither a digit nor '.'.  A
// token without a separator (hemizygous chrY/chrM calls) is treated as a
// phased single-copy call.  Parse never fails; unparseable alleles become
// Missing.
func Parse(token string) Genotype {
	sepIdx := strings.IndexFunc(token, func(c rune) bool {
		return (c < '0' || c > '9') && c != '.'
	})
	if sepIdx < 0 {
		return Genotype{
			AlleleIndexes: []int{parseAllele(token)},
			Phased:        true,
		}
	}
	sep := token[sepIdx]
	parts := strings.Split(token, string(sep))
	g := Genotype{
		AlleleIndexes: make([]int, len(parts)),
		Phased:        sep == '|',
	}
	for i, p := range parts {
		g.AlleleIndexes[i] = parseAllele(p)
	}
	return g
}

func parseAllele(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return Missing
	}
	return v
}

// Ploidy returns the number of chromosome copies in the call.
func (g Genotype) Ploidy() int { return len(g.AlleleIndexes) }

// Homozygous returns true iff every copy carries the same allele index as the
// first one.
func (g Genotype) Homozygous() bool {
	if len(g.AlleleIndexes) == 0 {
		return true
	}
	for _, a := range g.AlleleIndexes[1:] {
		if a != g.AlleleIndexes[0] {
			return false
		}
	}
	return true
}

// HomozygousRef returns true iff every copy is the reference allele.
func (g Genotype) HomozygousRef() bool {
	return len(g.AlleleIndexes) > 0 && g.AlleleIndexes[0] == 0 && g.Homozygous()
}

// Allele returns the allele index on the given haplotype slot.  A slot past
// the end of a shorter call reads as reference.
func (g Genotype) Allele(haplotype int) int {
	if haplotype >= len(g.AlleleIndexes) {
		return 0
	}
	return g.AlleleIndexes[haplotype]
}

// Equal returns true iff both calls have the same allele sequence, and the
// same phasing unless both are homozygous (phase carries no information when
// all copies agree).
func (g Genotype) Equal(o Genotype) bool {
	if len(g.AlleleIndexes) != len(o.AlleleIndexes) {
		return false
	}
	for i, a := range g.AlleleIndexes {
		if a != o.AlleleIndexes[i] {
			return false
		}
	}
	return g.Phased == o.Phased || g.Homozygous()
}

// String renders the genotype back into GT syntax.
func (g Genotype) String() string {
	sep := "/"
	if g.Phased {
		sep = "|"
	}
	var sb strings.Builder
	for i, a := range g.AlleleIndexes {
		if i > 0 {
			sb.WriteString(sep)
		}
		if a == Missing {
			sb.WriteByte('.')
		} else {
			sb.WriteString(strconv.Itoa(a))
		}
	}
	return sb.String()
}
