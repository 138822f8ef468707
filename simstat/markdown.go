// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"bytes"
	"fmt"
)

// FormatMarkdown appends a markdown formatting of the tables to buf.
//
// Each table is preceded by a single blank line and lists its data
// rows first, followed by the two-line trailer naming the test and
// the columns. The trailing-header layout matches the reports this
// tool replaces and must not be "fixed" to header-first. Tables with
// no rows render as trailer only.
func FormatMarkdown(buf *bytes.Buffer, tables []*Table) {
	for _, t := range tables {
		buf.WriteByte('\n')
		for _, row := range t.Rows {
			buf.WriteString(row)
			buf.WriteByte('\n')
		}
		fmt.Fprintf(buf, "| %s  | clock | insts | CPI | DH count | DH cycles | CH count | CH cycles |\n", t.Test)
		buf.WriteString("| :----------------- | ----- | :---- | :-- | -------- | :-------- | :------- | :-------- |\n")
	}
}
