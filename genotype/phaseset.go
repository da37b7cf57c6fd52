// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package genotype

// PhaseSet is the value of a sample's PS FORMAT tag.  Phased calls sharing a
// phase set have known relative phase.
type PhaseSet string

// UnsetPhaseSet is used when PS is absent or '.'.  In VCF 4.2, all
// phased calls without PS belong to one implicit phase set, so unset values
// compare equal to each other.
const UnsetPhaseSet PhaseSet = ""

// ParsePhaseSet converts a raw PS value.
func ParsePhaseSet(s string) PhaseSet {
	if s == "." {
		return UnsetPhaseSet
	}
	return PhaseSet(s)
}

// NormalizePhaseSets returns gts with every phased heterozygous call whose
// phase set differs from that of the first phased heterozygous call demoted
// to unphased.  Homozygous and already-unphased calls are returned as is.
// gts itself is not modified.  If phaseSets is nil, gts is returned.
func NormalizePhaseSets(gts []Genotype, phaseSets []PhaseSet) []Genotype {
	if phaseSets == nil {
		return gts
	}
	var (
		out    []Genotype
		anchor PhaseSet
		found  bool
	)
	for i, g := range gts {
		if !g.Phased || g.Homozygous() {
			continue
		}
		if !found {
			anchor, found = phaseSets[i], true
			continue
		}
		if phaseSets[i] == anchor {
			continue
		}
		if out == nil {
			out = make([]Genotype, len(gts))
			copy(out, gts)
		}
		out[i] = Genotype{AlleleIndexes: g.AlleleIndexes, Phased: false}
	}
	if out == nil {
		return gts
	}
	return out
}
