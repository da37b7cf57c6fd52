// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package mnv

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"gopkg.in/yaml.v2"
)

// Opts configures Run.  The yaml tags name the keys of a -config file, and
// match the bio-mnv flag names.
type Opts struct {
	// BedPath and Region restrict the input to the given intervals.  At most
	// one of them may be set.
	BedPath string `yaml:"bed"`
	Region  string `yaml:"region"`
	// KeepFilters lists FILTER values, besides PASS, that do not exclude a
	// record.
	KeepFilters []string `yaml:"keep-filter"`
	// MinNonRef is the minimum number of non-reference positions a
	// recomposed allele block needs to be reported.
	MinNonRef int `yaml:"min-nonref"`
	// Parallelism is the number of windows processed concurrently; 0 means
	// runtime.NumCPU().
	Parallelism int `yaml:"parallelism"`
	// WindowSize is the number of bases, starting at a variant, within which
	// a following variant may belong to the same MNV.
	WindowSize int `yaml:"window-size"`
}

// DefaultOpts is the default configuration.  A window of 3 spans one codon.
var DefaultOpts = Opts{
	MinNonRef:   2,
	Parallelism: 0,
	WindowSize:  3,
}

// LoadOpts reads the YAML file at path into opts.  Keys absent from the file
// keep their value in opts.
func LoadOpts(ctx context.Context, path string, opts *Opts) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return errors.E(err, "reading", path)
	}
	if err = yaml.UnmarshalStrict(data, opts); err != nil {
		return errors.E(errors.Invalid, err, "parsing", path)
	}
	return nil
}

func (o *Opts) validate() error {
	if o.BedPath != "" && o.Region != "" {
		return errors.E(errors.Invalid, "at most one of bed and region may be set")
	}
	if o.WindowSize < 1 {
		return errors.E(errors.Invalid, fmt.Sprintf("window size must be positive, got %d", o.WindowSize))
	}
	if o.MinNonRef < 1 {
		return errors.E(errors.Invalid, fmt.Sprintf("min-nonref must be positive, got %d", o.MinNonRef))
	}
	if o.Parallelism < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("parallelism must be nonnegative, got %d", o.Parallelism))
	}
	return nil
}
