// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simfmt provides a reader for the metric blocks that the
// pipeline simulator prints into its run logs.
//
// A metric block starts with a "-------Running <test>-------" marker
// and is followed, with arbitrary intervening log text, by seven
// labeled numeric fields in a fixed order. The reader is structured as
// a streaming operation modeled on bufio.Scanner so that callers can
// process logs of any size in a single forward pass.
package simfmt

import "math/big"

// A Result is a single parsed metric block and all of its fields.
//
// Results are mutated in place and reused by Reader to reduce
// allocation; use Clone to retain one across calls to Scan.
type Result struct {
	// Label identifies the simulator configuration whose log
	// produced this block. It is derived from the log file name
	// (the portion before the first dot) unless overridden.
	Label string

	// Name is the test program named by the block's start marker.
	Name string

	// RunClock is the total cycle count of the run.
	RunClock big.Int

	// DataHazardCount and DataHazardDelayedCycles describe data
	// hazards encountered during the run.
	DataHazardCount         big.Int
	DataHazardDelayedCycles big.Int

	// ControlHazardCount and ControlHazardDelayedCycles describe
	// control hazards encountered during the run.
	ControlHazardCount         big.Int
	ControlHazardDelayedCycles big.Int

	// ValidInsts is the number of valid instructions executed.
	ValidInsts big.Int

	// CPI is the cycles-per-instruction figure reported by the
	// simulator.
	CPI float64

	// fileName and line record where this Result was read from.
	fileName string
	line     int
}

// Pos returns the file name and line number of the Result's start
// marker. For Results that were not read from a file, it returns "", 0.
func (r *Result) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// Clone makes a copy of Result that shares no state with r.
func (r *Result) Clone() *Result {
	r2 := &Result{
		Label:    r.Label,
		Name:     r.Name,
		CPI:      r.CPI,
		fileName: r.fileName,
		line:     r.line,
	}
	r2.RunClock.Set(&r.RunClock)
	r2.DataHazardCount.Set(&r.DataHazardCount)
	r2.DataHazardDelayedCycles.Set(&r.DataHazardDelayedCycles)
	r2.ControlHazardCount.Set(&r.ControlHazardCount)
	r2.ControlHazardDelayedCycles.Set(&r.ControlHazardDelayedCycles)
	r2.ValidInsts.Set(&r.ValidInsts)
	return r2
}

// counts returns the count fields of r in the order the simulator
// prints them.
func (r *Result) counts() []*big.Int {
	return []*big.Int{
		&r.RunClock,
		&r.DataHazardCount,
		&r.DataHazardDelayedCycles,
		&r.ControlHazardCount,
		&r.ControlHazardDelayedCycles,
		&r.ValidInsts,
	}
}
