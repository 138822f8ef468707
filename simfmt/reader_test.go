// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// parseAll reads every metric block in data and renders each as a
// one-line summary for comparison.
func parseAll(t *testing.T, data string) []string {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test", "cfg")
	var out []string
	for r.Scan() {
		out = append(out, recordString(r.Result()))
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out
}

func recordString(r *Result) string {
	return fmt.Sprintf("%s %s clock=%s dh=%s/%s ch=%s/%s insts=%s cpi=%v",
		r.Label, r.Name,
		r.RunClock.String(),
		r.DataHazardCount.String(), r.DataHazardDelayedCycles.String(),
		r.ControlHazardCount.String(), r.ControlHazardDelayedCycles.String(),
		r.ValidInsts.String(), r.CPI)
}

// rec builds the expected summary line for a block.
func rec(name string, clock, dh, dhc, ch, chc, insts string, cpi float64) string {
	return fmt.Sprintf("cfg %s clock=%s dh=%s/%s ch=%s/%s insts=%s cpi=%v",
		name, clock, dh, dhc, ch, chc, insts, cpi)
}

// block renders a complete well-formed metric block for test input.
func block(name string, clock, dh, dhc, ch, chc, insts string, cpi string) string {
	return fmt.Sprintf(`-------Running %s-------
CPU run clock: %s
CPU data hazard count: %s
CPU data hazard delayed cycles: %s
CPU control hazard count: %s
CPU control hazard delayed cycles: %s
CPU executed valid instructions: %s
CPI = %s
`, name, clock, dh, dhc, ch, chc, insts, cpi)
}

func TestReader(t *testing.T) {
	type testCase struct {
		name, input string
		want        []string
	}
	for _, test := range []testCase{
		{
			"one block",
			block("load-store", "425", "151", "0", "17", "34", "390", "1.0897435897435896"),
			[]string{
				rec("load-store", "425", "151", "0", "17", "34", "390", 1.0897435897435896),
			},
		},
		{
			"single line",
			"-------Running load-store-------\n" +
				"...CPU run clock: 425...CPU data hazard count: 151..." +
				"CPU data hazard delayed cycles: 0...CPU control hazard count: 17..." +
				"CPU control hazard delayed cycles: 34...CPU executed valid instructions: 390..." +
				"CPI = 1.0897435897435896\n",
			[]string{
				rec("load-store", "425", "151", "0", "17", "34", "390", 1.0897435897435896),
			},
		},
		{
			"three blocks in order",
			block("add", "10", "1", "2", "3", "4", "5", "2.0") +
				"noise between runs\n" +
				block("add", "20", "6", "7", "8", "9", "10", "2.0") +
				block("div", "30", "0", "0", "0", "0", "15", "2.0"),
			[]string{
				rec("add", "10", "1", "2", "3", "4", "5", 2),
				rec("add", "20", "6", "7", "8", "9", "10", 2),
				rec("div", "30", "0", "0", "0", "0", "15", 2),
			},
		},
		{
			"intervening log text",
			"boot: cache warmed\n" +
				"-------Running matrix-mul-------\n" +
				"fetch stage flushed 3 times\n" +
				"CPU run clock: 9001\n" +
				"decode: ok\nCPU data hazard count: 12\n\n" +
				"CPU data hazard delayed cycles: 24\n" +
				"trace dump follows\n" +
				"CPU control hazard count: 3\n" +
				"CPU control hazard delayed cycles: 6\n" +
				"CPU executed valid instructions: 4500\n" +
				"CPI = 2.0002\n",
			[]string{
				rec("matrix-mul", "9001", "12", "24", "3", "6", "4500", 2.0002),
			},
		},
		{
			"missing field drops block",
			"-------Running add-------\n" +
				"CPU run clock: 10\n" +
				"CPU data hazard count: 1\n" +
				block("div", "30", "0", "0", "0", "0", "15", "2.0"),
			[]string{
				rec("div", "30", "0", "0", "0", "0", "15", 2),
			},
		},
		{
			"missing field at eof",
			"-------Running add-------\n" +
				"CPU run clock: 10\n",
			nil,
		},
		{
			"fields out of order drop block",
			"-------Running add-------\n" +
				"CPU data hazard count: 1\n" +
				"CPU run clock: 10\n",
			nil,
		},
		{
			"label without value is skipped",
			"-------Running shift-------\n" +
				"CPU run clock: pending\n" +
				"CPU run clock: 77\n" +
				"CPU data hazard count: 0\n" +
				"CPU data hazard delayed cycles: 0\n" +
				"CPU control hazard count: 0\n" +
				"CPU control hazard delayed cycles: 0\n" +
				"CPU executed valid instructions: 70\n" +
				"CPI = 1.1\n",
			[]string{
				rec("shift", "77", "0", "0", "0", "0", "70", 1.1),
			},
		},
		{
			"huge counts",
			block("ackermann", "123456789012345678901234567890", "0", "0", "0", "0",
				"98765432109876543210", "1.25"),
			[]string{
				rec("ackermann", "123456789012345678901234567890", "0", "0", "0", "0",
					"98765432109876543210", 1.25),
			},
		},
		{
			"unterminated marker is not a block boundary",
			"-------Running if-else-------\n" +
				"log: -------Running next\n" + // no closing hyphens
				"CPU run clock: 5\n" +
				"CPU data hazard count: 0\n" +
				"CPU data hazard delayed cycles: 0\n" +
				"CPU control hazard count: 0\n" +
				"CPU control hazard delayed cycles: 0\n" +
				"CPU executed valid instructions: 4\n" +
				"CPI = 1.25\n",
			[]string{
				rec("if-else", "5", "0", "0", "0", "0", "4", 1.25),
			},
		},
		{
			"complete block and next marker on one line",
			block("add", "10", "1", "2", "3", "4", "5", "2.0")[:len(block("add", "10", "1", "2", "3", "4", "5", "2.0"))-1] +
				" -------Running div------- CPU run clock: 30 " +
				"CPU data hazard count: 0 CPU data hazard delayed cycles: 0 " +
				"CPU control hazard count: 0 CPU control hazard delayed cycles: 0 " +
				"CPU executed valid instructions: 15 CPI = 2.0\n",
			[]string{
				rec("add", "10", "1", "2", "3", "4", "5", 2),
				rec("div", "30", "0", "0", "0", "0", "15", 2),
			},
		},
		{
			"labels are case sensitive",
			"-------Running add-------\n" +
				"cpu run clock: 10\n" +
				"CPU DATA HAZARD COUNT: 1\n",
			nil,
		},
		{
			"no blocks",
			"just an ordinary log\nwith no runs in it\n",
			nil,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := parseAll(t, test.input)
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("got:\n%s\nwant:\n%s",
					strings.Join(got, "\n"), strings.Join(test.want, "\n"))
			}
		})
	}
}

func TestReaderIdempotent(t *testing.T) {
	data := block("add", "10", "1", "2", "3", "4", "5", "2.0") +
		"-------Running div-------\nCPU run clock: 1\n" + // incomplete
		block("quicksort", "99", "9", "9", "9", "9", "90", "1.1")
	first := parseAll(t, data)
	second := parseAll(t, data)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass differs:\nfirst:\n%s\nsecond:\n%s",
			strings.Join(first, "\n"), strings.Join(second, "\n"))
	}
	if len(first) != 2 {
		t.Errorf("got %d records, want 2", len(first))
	}
}

func TestReaderPos(t *testing.T) {
	data := "\n\n" + block("add", "10", "1", "2", "3", "4", "5", "2.0")
	r := NewReader(strings.NewReader(data), "file.stats", "cfg")
	if !r.Scan() {
		t.Fatal("no record")
	}
	file, line := r.Result().Pos()
	if file != "file.stats" || line != 3 {
		t.Errorf("Pos() = %q, %d, want %q, 3", file, line, "file.stats")
	}
}

func TestResultClone(t *testing.T) {
	r := NewReader(strings.NewReader(
		block("add", "10", "1", "2", "3", "4", "5", "2.0")+
			block("div", "30", "0", "0", "0", "0", "15", "3.0")), "test", "cfg")
	if !r.Scan() {
		t.Fatal("no first record")
	}
	clone := r.Result().Clone()
	want := recordString(clone)
	if !r.Scan() {
		t.Fatal("no second record")
	}
	// The reader reuses its Result; the clone must be unaffected.
	if got := recordString(clone); got != want {
		t.Errorf("clone changed after Scan: got %q, want %q", got, want)
	}
}
