// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simstat aggregates parsed simulator metric blocks into
// per-test report tables and renders them in several formats.
package simstat

import (
	"fmt"
	"strconv"

	"github.com/cpusim/simstat/simfmt"
)

// A Collection accumulates report rows grouped by test name.
//
// The set of test names is fixed at construction; every known test
// gets a table even if no input ever produces a record for it. A
// Collection is mutated only by its owner's single control flow and
// is not safe for concurrent use.
type Collection struct {
	tests  []string
	tables map[string]*Table
}

// A Table holds the accumulated report rows for one test.
type Table struct {
	// Test is the test name that keys this table.
	Test string

	// Rows are the formatted markdown data rows, one per metric
	// block, in the order the blocks were encountered: files in
	// input order, blocks within a file in textual order. No
	// re-ordering is ever performed.
	Rows []string

	// Records are the cloned metric blocks backing Rows, in the
	// same order. The derived outputs (CSV, HTML, summaries,
	// charts) are computed from these.
	Records []*simfmt.Result
}

// An UnknownTestError reports a metric block whose test name is not
// in the collection's registry. It signals a mismatch between the
// registry and the logs, so callers should treat it as fatal.
type UnknownTestError struct {
	Name     string
	FileName string
	Line     int
}

func (e *UnknownTestError) Error() string {
	return fmt.Sprintf("%s:%d: unknown test name %q", e.FileName, e.Line, e.Name)
}

// NewCollection returns a Collection with an empty table registered
// for each of tests, in order. Duplicate names are registered once.
func NewCollection(tests []string) *Collection {
	c := &Collection{tables: make(map[string]*Table)}
	for _, name := range tests {
		if _, ok := c.tables[name]; ok {
			continue
		}
		c.tests = append(c.tests, name)
		c.tables[name] = &Table{Test: name}
	}
	return c
}

// Tests returns the registered test names in registration order.
func (c *Collection) Tests() []string {
	return c.tests
}

// Add formats rec as a report row and appends it to the table keyed
// by the record's test name. The record is cloned; the caller may
// reuse it. If the test name is not registered, Add returns an
// *UnknownTestError and the collection is unchanged.
func (c *Collection) Add(rec *simfmt.Result) error {
	t, ok := c.tables[rec.Name]
	if !ok {
		fileName, line := rec.Pos()
		return &UnknownTestError{rec.Name, fileName, line}
	}
	t.Rows = append(t.Rows, formatRow(rec))
	t.Records = append(t.Records, rec.Clone())
	return nil
}

// Tables returns the collection's tables in registration order.
func (c *Collection) Tables() []*Table {
	tables := make([]*Table, len(c.tests))
	for i, name := range c.tests {
		tables[i] = c.tables[name]
	}
	return tables
}

// formatRow renders one metric block as a markdown table row.
func formatRow(r *simfmt.Result) string {
	return fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |",
		r.Label,
		r.RunClock.String(),
		r.ValidInsts.String(),
		formatCPI(r.CPI),
		r.DataHazardCount.String(),
		r.DataHazardDelayedCycles.String(),
		r.ControlHazardCount.String(),
		r.ControlHazardDelayedCycles.String())
}

// formatCPI renders a CPI value with exactly three digits after the
// decimal point, rounding to the nearest representable decimal.
func formatCPI(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
