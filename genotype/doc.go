// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package genotype parses VCF GT tokens and groups one sample's calls across
// a window of nearby positions into blocks that can be split at
// phasing/window boundaries.
package genotype
