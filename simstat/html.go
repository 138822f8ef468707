// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"io"

	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("report").ParseFromTrustedTemplate(template.MakeTrustedTemplate(`
{{- range . -}}
<table class='simstat'>
<thead>
<tr><th>{{.Test}}<th>clock<th>insts<th>CPI<th>DH count<th>DH cycles<th>CH count<th>CH cycles
</thead>
<tbody>
{{range .Rows -}}
<tr><td>{{.Label}}<td>{{.Clock}}<td>{{.Insts}}<td>{{.CPI}}<td>{{.DHCount}}<td>{{.DHCycles}}<td>{{.CHCount}}<td>{{.CHCycles}}
{{end -}}
</tbody>
</table>
{{end -}}
`)))

type htmlTable struct {
	Test string
	Rows []htmlRow
}

type htmlRow struct {
	Label, Clock, Insts, CPI          string
	DHCount, DHCycles                 string
	CHCount, CHCycles                 string
}

// FormatHTML writes the tables as HTML <table> fragments, one per
// test in registration order. Unlike the markdown report, the HTML
// tables are header-first; the markdown trailer layout is a wire
// compatibility constraint that does not apply here.
func FormatHTML(w io.Writer, tables []*Table) error {
	view := make([]htmlTable, len(tables))
	for i, t := range tables {
		view[i].Test = t.Test
		for _, r := range t.Records {
			view[i].Rows = append(view[i].Rows, htmlRow{
				Label:    r.Label,
				Clock:    r.RunClock.String(),
				Insts:    r.ValidInsts.String(),
				CPI:      formatCPI(r.CPI),
				DHCount:  r.DataHazardCount.String(),
				DHCycles: r.DataHazardDelayedCycles.String(),
				CHCount:  r.ControlHazardCount.String(),
				CHCycles: r.ControlHazardDelayedCycles.String(),
			})
		}
	}
	return htmlTemplate.Execute(w, view)
}
