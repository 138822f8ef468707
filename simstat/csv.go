// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"encoding/csv"
	"io"
	"strconv"
)

// FormatCSV writes every record in the tables as one flat CSV row,
// preceded by a header row. Tables appear in registration order and
// rows within a table in discovery order. CPI is written at full
// precision; the counts are written verbatim.
func FormatCSV(w io.Writer, tables []*Table) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"test", "config", "clock", "insts", "cpi",
		"dh_count", "dh_cycles", "ch_count", "ch_cycles"})
	for _, t := range tables {
		for _, r := range t.Records {
			cw.Write([]string{
				t.Test,
				r.Label,
				r.RunClock.String(),
				r.ValidInsts.String(),
				strconv.FormatFloat(r.CPI, 'g', -1, 64),
				r.DataHazardCount.String(),
				r.DataHazardDelayedCycles.String(),
				r.ControlHazardCount.String(),
				r.ControlHazardDelayedCycles.String(),
			})
		}
	}
	cw.Flush()
	return cw.Error()
}
