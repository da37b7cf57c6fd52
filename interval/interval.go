// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"context"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// PosType is the coordinate type of a Set.
type PosType int32

const posTypeMax = math.MaxInt32

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// Set is a union of intervals, stored per chromosome as a length-2N sequence
// of endpoints: the start of interval #k is in element [2k], its end in
// element [2k+1], and intervals are disjoint and increasing.  A position is
// inside the set iff the number of endpoints <= it is odd.
//
// Contains caches search state to make nondecreasing queries cheap, so a Set
// is not threadsafe; use Clone to query from several goroutines.
type Set struct {
	nameMap map[string][]PosType

	lastChrName      string
	lastChrIntervals []PosType
	// lastPosPlus1 is 1 plus the last queried position, and lastIdx is
	// searchPosType(lastChrIntervals, lastPosPlus1).
	lastPosPlus1 PosType
	lastIdx      int
	isSequential bool
}

// NewSet returns the union of entries.  Entries may be in any order and may
// overlap; empty entries are ignored.
func NewSet(entries []Entry) (*Set, error) {
	byChr := make(map[string][]Entry)
	for _, e := range entries {
		if e.Start0 < 0 || e.End < e.Start0 || e.End >= posTypeMax {
			return nil, errors.Errorf("interval.NewSet: invalid interval %s:[%d, %d)", e.ChrName, e.Start0, e.End)
		}
		if e.End > e.Start0 {
			byChr[e.ChrName] = append(byChr[e.ChrName], e)
		}
	}
	s := &Set{nameMap: make(map[string][]PosType, len(byChr))}
	for chr, es := range byChr {
		sort.Slice(es, func(i, j int) bool { return es[i].Start0 < es[j].Start0 })
		endpoints := []PosType{es[0].Start0, es[0].End}
		for _, e := range es[1:] {
			last := len(endpoints) - 1
			if e.Start0 > endpoints[last] {
				endpoints = append(endpoints, e.Start0, e.End)
			} else if e.End > endpoints[last] {
				// Touching or overlapping; merge.
				endpoints[last] = e.End
			}
		}
		s.nameMap[chr] = endpoints
	}
	return s, nil
}

// Len returns the number of disjoint intervals in the set.
func (s *Set) Len() int {
	n := 0
	for _, endpoints := range s.nameMap {
		n += len(endpoints) / 2
	}
	return n
}

// Clone returns a Set which shares the intervals of s but has its own search
// state.
func (s *Set) Clone() *Set {
	return &Set{nameMap: s.nameMap}
}

// searchPosType returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).
func searchPosType(a []PosType, x PosType) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// fwdsearchPosType checks a[idx], then a[idx + 1], then a[idx + 3], then
// a[idx + 7], etc., and then uses binary search to finish the job.
func fwdsearchPosType(a []PosType, x PosType, idx int) int {
	nextIncr := 1
	startIdx := idx
	endIdx := len(a)
	for idx < endIdx {
		if a[idx] >= x {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	return startIdx + searchPosType(a[startIdx:endIdx], x)
}

// Contains checks whether the (0-based) position pos of chromosome chrName
// is in the set.
func (s *Set) Contains(chrName string, pos PosType) bool {
	posPlus1 := pos + 1
	if chrName != s.lastChrName || s.lastChrIntervals == nil {
		s.lastChrName = chrName
		s.lastChrIntervals = s.nameMap[chrName]
		if s.lastChrIntervals == nil {
			return false
		}
		s.lastIdx = searchPosType(s.lastChrIntervals, posPlus1)
		s.lastPosPlus1 = posPlus1
		s.isSequential = true
		return s.lastIdx&1 == 1
	}
	if s.isSequential {
		if posPlus1 >= s.lastPosPlus1 {
			s.lastIdx = fwdsearchPosType(s.lastChrIntervals, posPlus1, s.lastIdx)
			s.lastPosPlus1 = posPlus1
			return s.lastIdx&1 == 1
		}
		s.isSequential = false
	}
	return searchPosType(s.lastChrIntervals, posPlus1)&1 == 1
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// ReadBED reads the intervals of a BED file.  Only the first three columns
// are used; blank lines and "#", "track" and "browser" header lines are
// skipped.
func ReadBED(r io.Reader) (*Set, error) {
	var (
		tokens  [3][]byte
		entries []Entry
	)
	scanner := bufio.NewScanner(r)
	for lineIdx := 1; scanner.Scan(); lineIdx++ {
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || tokens[0][0] == '#' {
			continue
		}
		if chr := gunsafe.BytesToString(tokens[0]); chr == "track" || chr == "browser" {
			continue
		}
		if nToken != 3 {
			return nil, errors.Errorf("interval.ReadBED: line %d has fewer tokens than expected", lineIdx)
		}
		start, err := strconv.Atoi(gunsafe.BytesToString(tokens[1]))
		if err != nil {
			return nil, errors.Wrapf(err, "interval.ReadBED: line %d", lineIdx)
		}
		end, err := strconv.Atoi(gunsafe.BytesToString(tokens[2]))
		if err != nil {
			return nil, errors.Wrapf(err, "interval.ReadBED: line %d", lineIdx)
		}
		if start < 0 || end < start || end >= posTypeMax {
			return nil, errors.Errorf("interval.ReadBED: invalid coordinate pair on line %d", lineIdx)
		}
		// The chromosome name must be copied, since tokens point into a
		// buffer the scanner reuses.
		entries = append(entries, Entry{ChrName: string(tokens[0]), Start0: PosType(start), End: PosType(end)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "interval.ReadBED")
	}
	return NewSet(entries)
}

// LoadBED is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Gzipped files are decompressed.
func LoadBED(ctx context.Context, path string) (set *Set, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader := io.Reader(infile.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		reader = gz
	}
	if set, err = ReadBED(reader); err != nil {
		return
	}
	log.Printf("%s: loaded %d interval(s)", path, set.Len())
	return
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, posTypeMax - 1] is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = errors.New("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		return Entry{ChrName: region, End: posTypeMax - 1}, nil
	}
	if colonPos == 0 {
		err = errors.New("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[:colonPos]
	rangeStr := region[colonPos+1:]
	start1Str, endStr := rangeStr, ""
	if dashPos := strings.IndexByte(rangeStr, '-'); dashPos != -1 {
		start1Str, endStr = rangeStr[:dashPos], rangeStr[dashPos+1:]
	}
	var start1, end int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		return
	}
	if start1 <= 0 || start1 >= posTypeMax {
		err = errors.Errorf("interval.ParseRegionString: position %v in region string out of range", start1Str)
		return
	}
	end = start1
	if endStr != "" {
		if end, err = strconv.Atoi(endStr); err != nil {
			return
		}
		if end < start1 || end >= posTypeMax {
			err = errors.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
			return
		}
	}
	result.Start0 = PosType(start1 - 1)
	result.End = PosType(end)
	return
}
