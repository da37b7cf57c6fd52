// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package mnv

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const testVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	S1	S2
chr1	100	.	A	G	.	PASS	.	GT	0|1	0|0
chr1	101	.	C	T	.	PASS	.	GT	1|1	0|1
chr1	102	.	G	A	.	PASS	.	GT	1|0	0|1
chr1	200	.	T	C	.	PASS	.	GT	1|1	0|1
chr1	300	.	A	ACG	.	PASS	.	GT	0|1	0|1
chr1	301	.	C	T	.	PASS	.	GT	0|1	0|1
chr2	10	.	G	C	.	LowQual	.	GT	1|1	0/1
chr2	11	.	A	T	.	PASS	.	GT	1|1	1/0
`

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

func readOutput(t *testing.T, path string) string {
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		assert.NoError(t, err)
		r = gz
	}
	data, err := ioutil.ReadAll(r)
	assert.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	vcfPath := filepath.Join(tmpdir, "in.vcf")
	assert.NoError(t, ioutil.WriteFile(vcfPath, []byte(testVCF), 0644))

	chr1 := "chr1\t100\t102\t100,101,102\tA,C,G\tA,T,A\tS1:0,S2:1\n" +
		"chr1\t100\t102\t100,101,102\tA,C,G\tG,T,G\tS1:1\n"
	chr2 := "chr2\t10\t11\t10,11\tG,A\tC,T\tS1:0,S1:1\n"

	tests := []struct {
		name string
		opts Opts
		want string
	}{
		{"out.tsv", DefaultOpts, chr1},
		{"keep.tsv.gz", Opts{KeepFilters: []string{"LowQual"}, MinNonRef: 2, WindowSize: 3}, chr1 + chr2},
		{"region.tsv", Opts{Region: "chr2:1-100", KeepFilters: []string{"LowQual"}, MinNonRef: 2, WindowSize: 3}, chr2},
		{"minnonref.tsv", Opts{MinNonRef: 3, WindowSize: 3}, ""},
		// With 2-base windows, position 102 is still reachable from 101.
		{"window.tsv", Opts{MinNonRef: 2, WindowSize: 2}, chr1},
		{"single.tsv", Opts{MinNonRef: 2, WindowSize: 1}, ""},
	}
	for _, test := range tests {
		opts := test.opts
		outPath := filepath.Join(tmpdir, test.name)
		assert.NoError(t, Run(ctx, vcfPath, outPath, &opts))
		expect.EQ(t, readOutput(t, outPath), outputHeader+"\n"+test.want, test.name)
	}
}

func TestRunBED(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	vcfPath := filepath.Join(tmpdir, "in.vcf")
	assert.NoError(t, ioutil.WriteFile(vcfPath, []byte(testVCF), 0644))
	bedPath := filepath.Join(tmpdir, "in.bed")
	// Excludes position 100.  S1's haplotype 0 and S2's haplotype 1 then
	// carry the same block.
	assert.NoError(t, ioutil.WriteFile(bedPath, []byte("chr1\t100\t150\n"), 0644))

	outPath := filepath.Join(tmpdir, "out.tsv")
	opts := DefaultOpts
	opts.BedPath = bedPath
	assert.NoError(t, Run(ctx, vcfPath, outPath, &opts))
	expect.EQ(t, readOutput(t, outPath), outputHeader+"\n"+
		"chr1\t101\t102\t101,102\tC,G\tT,A\tS1:0,S2:1\n")
}

func TestRunErrors(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	vcfPath := filepath.Join(tmpdir, "in.vcf")
	assert.NoError(t, ioutil.WriteFile(vcfPath, []byte(testVCF), 0644))
	outPath := filepath.Join(tmpdir, "out.tsv")

	opts := DefaultOpts
	opts.Region, opts.BedPath = "chr1", "x.bed"
	err := Run(ctx, vcfPath, outPath, &opts)
	expect.True(t, errors.Is(errors.Invalid, err))

	opts = DefaultOpts
	opts.WindowSize = 0
	expect.True(t, errors.Is(errors.Invalid, Run(ctx, vcfPath, outPath, &opts)))

	opts = DefaultOpts
	opts.Region = "chr1:0-5"
	expect.NotNil(t, Run(ctx, vcfPath, outPath, &opts))

	opts = DefaultOpts
	expect.NotNil(t, Run(ctx, filepath.Join(tmpdir, "missing.vcf"), outPath, &opts))

	bad := filepath.Join(tmpdir, "bad.vcf")
	assert.NoError(t, ioutil.WriteFile(bad, []byte(testVCF+"chr3\tx\n"), 0644))
	expect.NotNil(t, Run(ctx, bad, outPath, &opts))
}

func TestRunBgzfOutput(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	vcfPath := filepath.Join(tmpdir, "in.vcf")
	assert.NoError(t, ioutil.WriteFile(vcfPath, []byte(testVCF), 0644))

	outPath := filepath.Join(tmpdir, "out.tsv.gz")
	opts := DefaultOpts
	assert.NoError(t, Run(ctx, vcfPath, outPath, &opts))
	data, err := ioutil.ReadFile(outPath)
	assert.NoError(t, err)
	// A bgzf member carries the "BC" extra subfield right after the gzip
	// header.
	expect.True(t, len(data) > 14)
	expect.EQ(t, string(data[12:14]), "BC")
	expect.True(t, strings.HasPrefix(readOutput(t, outPath), outputHeader+"\n"))
}
