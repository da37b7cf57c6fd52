// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBED = `track name=test
# comment
chr1	2488104	2488172
chr1	2489165	2489273
chr2	10	20
chr1	2488150	2488200

chr2	20	30
chr2	40	40
`

func TestReadBED(t *testing.T) {
	s, err := ReadBED(strings.NewReader(testBED))
	require.NoError(t, err)
	expect.EQ(t, s.nameMap, map[string][]PosType{
		"chr1": {2488104, 2488200, 2489165, 2489273},
		"chr2": {10, 30},
	})
	expect.EQ(t, s.Len(), 3)

	_, err = ReadBED(strings.NewReader("chr1\t10\n"))
	assert.Error(t, err)
	_, err = ReadBED(strings.NewReader("chr1\t10\t5\n"))
	assert.Error(t, err)
	_, err = ReadBED(strings.NewReader("chr1\tx\t5\n"))
	assert.Error(t, err)
}

func TestLoadBED(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpdir, "test.bed")
	require.NoError(t, os.WriteFile(path, []byte(testBED), 0644))

	s, err := LoadBED(vcontext.Background(), path)
	require.NoError(t, err)
	expect.True(t, s.Contains("chr2", 29))
	expect.False(t, s.Contains("chr2", 30))

	_, err = LoadBED(vcontext.Background(), filepath.Join(tmpdir, "missing.bed"))
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	s, err := NewSet([]Entry{
		{"chr1", 20, 25},
		{"chr1", 5, 15},
		{"chr1", 7, 17},
		{"chr3", 0, 0},
	})
	require.NoError(t, err)
	expect.EQ(t, s.nameMap, map[string][]PosType{"chr1": {5, 17, 20, 25}})

	inside := func(pos PosType) bool {
		return (pos >= 5 && pos < 17) || (pos >= 20 && pos < 25)
	}
	// Sequential queries, then out-of-order ones, on s and on a fresh clone.
	for _, set := range []*Set{s, s.Clone()} {
		for pos := PosType(0); pos < 30; pos++ {
			expect.EQ(t, set.Contains("chr1", pos), inside(pos), "pos %d", pos)
		}
		for _, pos := range []PosType{24, 3, 10, 17, 22} {
			expect.EQ(t, set.Contains("chr1", pos), inside(pos), "pos %d", pos)
		}
	}
	expect.False(t, s.Contains("chr2", 10))
	expect.False(t, s.Contains("chr3", 0))
	expect.True(t, s.Contains("chr1", 5))

	_, err = NewSet([]Entry{{"chr1", 10, 5}})
	assert.Error(t, err)
}

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		region  string
		chrName string
		start0  PosType
		end     PosType
	}{
		{"chr1:1-1000", "chr1", 0, 1000},
		{"chr1:1000", "chr1", 999, 1000},
		{"chr1:7-7", "chr1", 6, 7},
		{"chr1", "chr1", 0, math.MaxInt32 - 1},
	}
	for _, tt := range tests {
		result, err := ParseRegionString(tt.region)
		expect.NoError(t, err)
		expect.EQ(t, result, Entry{ChrName: tt.chrName, Start0: tt.start0, End: tt.end})
	}
	for _, bad := range []string{"", ":1-2", "chr1:0", "chr1:5-4", "chr1:a-5", "chr1:1-x"} {
		_, err := ParseRegionString(bad)
		expect.NotNil(t, err, bad)
	}
}
