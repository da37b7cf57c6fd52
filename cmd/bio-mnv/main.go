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
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/recompose/mnv"
)

var (
	bedPath     = flag.String("bed", mnv.DefaultOpts.BedPath, "Input BED path; restricts the VCF to these intervals. At most one of -bed and -region")
	region      = flag.String("region", mnv.DefaultOpts.Region, "Restrict the VCF to the specified region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>")
	configPath  = flag.String("config", "", "YAML file with default option values; keys are flag names")
	keepFilter  = flag.String("keep-filter", "", "Comma-separated FILTER values that, like PASS, keep a record")
	minNonRef   = flag.Int("min-nonref", mnv.DefaultOpts.MinNonRef, "Report only allele blocks with at least this many non-reference alleles")
	outPath     = flag.String("out", "bio-mnv.tsv", "Output path; bgzipped if it ends in .gz")
	parallelism = flag.Int("parallelism", mnv.DefaultOpts.Parallelism, "Maximum number of simultaneous recomposition jobs; 0 = runtime.NumCPU()")
	windowSize  = flag.Int("window-size", mnv.DefaultOpts.WindowSize, "Number of bases, starting at a variant, within which the next variant may belong to the same MNV")
)

func bioMNVUsage() {
	fmt.Printf("Usage: %s [OPTIONS] vcfpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioMNVUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Expected exactly one positional argument (vcfpath); please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	ctx := vcontext.Background()
	opts := mnv.DefaultOpts
	if *configPath != "" {
		if err := mnv.LoadOpts(ctx, *configPath, &opts); err != nil {
			log.Fatalf("%v", err)
		}
	}
	// Flags set on the command line override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bed":
			opts.BedPath = *bedPath
		case "region":
			opts.Region = *region
		case "keep-filter":
			opts.KeepFilters = nil
			for _, s := range strings.Split(*keepFilter, ",") {
				if s != "" {
					opts.KeepFilters = append(opts.KeepFilters, s)
				}
			}
		case "min-nonref":
			opts.MinNonRef = *minNonRef
		case "parallelism":
			opts.Parallelism = *parallelism
		case "window-size":
			opts.WindowSize = *windowSize
		}
	})
	if err := mnv.Run(ctx, flag.Arg(0), *outPath, &opts); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
