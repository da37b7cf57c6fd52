// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Given a multi-sample phased VCF, bio-mnv reports the multi-nucleotide variants
carried by each sample haplotype.

Nearby SNV records (within -window-size bases of each other, chained) are
grouped into windows.  Within a window, each sample's calls are cut wherever
their phase is unknown or an allele cannot be recomposed, and the remaining
runs are turned into per-haplotype allele blocks.  Blocks that differ only by
flanking reference calls are merged, so identical MNVs observed in different
samples are reported once.

Sample usage:
bio-mnv \
    --out mnv.tsv.gz \
    --region chr1:1000000-2000000 \
    calls.vcf.gz

The output TSV has one row per block with at least -min-nonref non-reference
alleles:
  #CHROM POS END POSITIONS REF ALT SAMPLES
where POSITIONS, REF and ALT are comma-separated per covered record, and
SAMPLES lists the carrying haplotypes as <sample name>:<haplotype index>.

Options may also be read from a YAML file with -config; flags given on the
command line take precedence.
*/
package main
