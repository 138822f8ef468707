// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"bytes"
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// A Summary describes the CPI distribution of one test across every
// configuration that produced a record for it.
type Summary struct {
	Test                string
	N                   int
	Min, Mean, Max      float64
	GeoMean             float64
}

// Summarize computes per-test CPI statistics over the tables, in
// registration order. Tests with no records are omitted: their
// statistics are undefined, not zero.
func Summarize(tables []*Table) []Summary {
	var out []Summary
	for _, t := range tables {
		if len(t.Records) == 0 {
			continue
		}
		xs := make([]float64, len(t.Records))
		for i, r := range t.Records {
			xs[i] = r.CPI
		}
		min, max := stats.Bounds(xs)
		out = append(out, Summary{
			Test:    t.Test,
			N:       len(xs),
			Min:     min,
			Mean:    stats.Mean(xs),
			Max:     max,
			GeoMean: stats.GeoMean(xs),
		})
	}
	return out
}

// FormatSummary appends a markdown formatting of the summaries to
// buf. This table is a derived view, not part of the report layout,
// so it uses the conventional header-first shape.
func FormatSummary(buf *bytes.Buffer, summaries []Summary) {
	buf.WriteString("\n| test | runs | min CPI | mean CPI | max CPI | geomean CPI |\n")
	buf.WriteString("| :--- | ---: | ------: | -------: | ------: | ----------: |\n")
	for _, s := range summaries {
		fmt.Fprintf(buf, "| %s | %d | %s | %s | %s | %s |\n",
			s.Test, s.N,
			formatCPI(s.Min), formatCPI(s.Mean), formatCPI(s.Max), formatCPI(s.GeoMean))
	}
}
