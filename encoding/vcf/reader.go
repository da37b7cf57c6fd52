// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package vcf adapts the gonomics VCF reader to haplotype recomposition.  It
// exposes the fixed columns and the raw GT and PS sample fields; INFO and the
// remaining FORMAT fields are not interpreted.
//
// gonomics terminates the process on malformed input, so every line is
// checked before it is handed to the gonomics parser, and shape errors are
// returned to the caller instead.
package vcf

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/fileio"
	gvcf "github.com/vertgenlab/gonomics/vcf"
)

// Number of fixed columns preceding FORMAT.
const numFixedCols = 8

var errEOF = errors.New("eof")

// Record is one VCF data line.
type Record struct {
	Chrom string
	// Pos is 1-based.
	Pos  int
	ID   string
	Ref  string
	Alts []string
	// Qual is 255 when the QUAL column is ".".
	Qual   float64
	Filter string
	// GT[s] and PS[s] are sample s's raw GT and PS values.  They are "" when
	// the field is absent.
	GT, PS []string
}

// Passes returns true iff the record's FILTER is "PASS" or ".", or every
// listed filter is in keep.
func (r *Record) Passes(keep map[string]bool) bool {
	if r.Filter == "PASS" || r.Filter == "." {
		return true
	}
	for _, f := range strings.Split(r.Filter, ";") {
		if !keep[f] {
			return false
		}
	}
	return true
}

// Reader reads VCF records from a stream.  The Scan method reads the next
// record, returning a boolean indicating whether the read succeeded.
// Readers are not threadsafe.
type Reader struct {
	er      *fileio.EasyReader
	header  gvcf.Header
	samples []string
	lineIdx int
	rec     *Record
	err     error
	close   func() error
}

// NewReader constructs a Reader and consumes the VCF header of r.  It
// returns an error if the "#CHROM" header line is missing.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{er: &fileio.EasyReader{BuffReader: bufio.NewReader(r)}}
	rd.header = gvcf.ReadHeader(rd.er)
	rd.lineIdx = len(rd.header.Text)
	if rd.lineIdx == 0 {
		return nil, errors.New("vcf: missing #CHROM header")
	}
	line := rd.header.Text[rd.lineIdx-1]
	if !strings.HasPrefix(line, "#CHROM") {
		return nil, errors.Errorf("vcf: line %d: expected #CHROM header, found %.20q", rd.lineIdx, line)
	}
	cols := strings.Split(line, "\t")
	if len(cols) < numFixedCols {
		return nil, errors.Errorf("vcf: line %d: header has %d columns", rd.lineIdx, len(cols))
	}
	if len(cols) > numFixedCols+1 {
		rd.samples = cols[numFixedCols+1:]
	}
	return rd, nil
}

// Open opens the VCF file at path.  Files ending in .bgz are read as bgzf,
// and files ending in .gz as gzip.  The caller must Close the reader.
func Open(ctx context.Context, path string) (*Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	var (
		r  io.Reader = in.Reader(ctx)
		zr io.ReadCloser
	)
	switch {
	case strings.HasSuffix(path, ".bgz"):
		zr, err = bgzf.NewReader(r, runtime.NumCPU())
	case strings.HasSuffix(path, ".gz"):
		zr, err = gzip.NewReader(r)
	}
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.Wrap(err, path)
	}
	if zr != nil {
		r = zr
	}
	rd, err := NewReader(r)
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.Wrap(err, path)
	}
	rd.close = func() error {
		if zr != nil {
			if err := zr.Close(); err != nil {
				_ = in.Close(ctx)
				return err
			}
		}
		return in.Close(ctx)
	}
	return rd, nil
}

// Samples returns the sample names in column order.
func (r *Reader) Samples() []string { return r.samples }

// Header returns the meta-information and #CHROM lines.
func (r *Reader) Header() []string { return r.header.Text }

// Scan reads the next record.  Once Scan returns false, it never returns
// true again.  Upon completion, the user should check the Err method to
// determine whether scanning stopped because of an error or because the end
// of the stream was reached.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for {
		line, done := fileio.EasyNextLine(r.er)
		if done {
			r.err = errEOF
			return false
		}
		r.lineIdx++
		if len(line) == 0 {
			continue
		}
		if err := r.check(line); err != nil {
			r.err = errors.Wrapf(err, "vcf: line %d", r.lineIdx)
			return false
		}
		v, _ := gvcf.NextVcf(&fileio.EasyReader{BuffReader: bufio.NewReader(strings.NewReader(line))})
		r.rec = r.convert(v)
		return true
	}
}

// Record returns the record read by the last successful Scan.  Each Scan
// allocates a new Record, so callers may retain it.
func (r *Reader) Record() *Record { return r.rec }

// Err returns the scanning error, if any.
func (r *Reader) Err() error {
	if r.err == errEOF {
		return nil
	}
	return r.err
}

// Close releases the underlying file, if the reader was created by Open.
func (r *Reader) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// check rejects lines the gonomics parser would abort on.
func (r *Reader) check(line string) error {
	cols := strings.Split(line, "\t")
	if len(cols) < numFixedCols {
		return errors.Errorf("%d columns, expected at least %d", len(cols), numFixedCols)
	}
	if _, err := strconv.Atoi(cols[1]); err != nil {
		return errors.Wrap(err, "POS")
	}
	if cols[5] != "." {
		if _, err := strconv.ParseFloat(cols[5], 64); err != nil {
			return errors.Wrap(err, "QUAL")
		}
	}
	nSamples := len(r.samples)
	if nSamples == 0 {
		return nil
	}
	if len(cols) != numFixedCols+1+nSamples {
		return errors.Errorf("%d columns, expected %d", len(cols), numFixedCols+1+nSamples)
	}
	if !strings.HasPrefix(cols[numFixedCols], "GT") {
		return errors.Errorf("FORMAT %q does not start with GT", cols[numFixedCols])
	}
	for s, col := range cols[numFixedCols+1:] {
		gt := col
		if i := strings.IndexByte(col, ':'); i >= 0 {
			gt = col[:i]
		}
		if !validGT(gt) {
			return errors.Errorf("sample %s: malformed GT %q", r.samples[s], gt)
		}
	}
	return nil
}

// validGT returns true iff gt is a '|' or '/' separated list of allele
// indexes or '.'.
func validGT(gt string) bool {
	for _, a := range strings.FieldsFunc(gt, func(c rune) bool { return c == '|' || c == '/' }) {
		if a == "." {
			continue
		}
		if _, err := strconv.Atoi(a); err != nil {
			return false
		}
	}
	return len(gt) > 0 && gt[0] != '|' && gt[0] != '/'
}

func (r *Reader) convert(v gvcf.Vcf) *Record {
	rec := &Record{
		Chrom:  v.Chr,
		Pos:    v.Pos,
		ID:     v.Id,
		Ref:    v.Ref,
		Qual:   v.Qual,
		Filter: v.Filter,
	}
	if len(v.Alt) > 0 && !(len(v.Alt) == 1 && v.Alt[0] == ".") {
		rec.Alts = v.Alt
	}
	nSamples := len(r.samples)
	if nSamples == 0 {
		return rec
	}
	psIdx := -1
	for i, key := range v.Format {
		if key == "PS" {
			psIdx = i
		}
	}
	rec.GT = make([]string, nSamples)
	rec.PS = make([]string, nSamples)
	for s := 0; s < nSamples && s < len(v.Samples); s++ {
		sample := v.Samples[s]
		rec.GT[s] = gtString(sample)
		// Trailing fields may be dropped.
		if psIdx > 0 && psIdx < len(sample.FormatData) {
			rec.PS[s] = sample.FormatData[psIdx]
		}
	}
	return rec
}

// gtString renders a parsed gonomics genotype back into a GT token.  Missing
// alleles are negative; Phase[i] is the phasing of the separator before
// allele i.
func gtString(s gvcf.Sample) string {
	var b strings.Builder
	for i, a := range s.Alleles {
		if i > 0 {
			if i < len(s.Phase) && s.Phase[i] {
				b.WriteByte('|')
			} else {
				b.WriteByte('/')
			}
		}
		if a < 0 {
			b.WriteByte('.')
		} else {
			b.WriteString(strconv.Itoa(int(a)))
		}
	}
	return b.String()
}
