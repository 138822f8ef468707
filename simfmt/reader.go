// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// A Reader reads metric blocks from a simulator run log.
//
// Its API is modeled on bufio.Scanner. To minimize allocation, a
// Reader retains ownership of the Result it produces; a caller should
// Clone anything it needs to retain across calls to Scan.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s   *bufio.Scanner
	err error // current I/O error

	// line is the unconsumed tail of the current input line.
	// A single line can contain several fields, or complete one
	// block and start the next, so Scan must be able to resume
	// mid-line.
	line    []byte
	lineNum int

	// pending indicates a start marker has been seen and fields
	// are still being collected. nField indexes the next field
	// label to search for.
	pending bool
	nField  int

	result Result
}

// Log text literals. The block grammar is case-sensitive and these
// are matched exactly.
var (
	marker  = []byte("-------Running ")
	nameEnd = []byte("-------")

	fieldLabels = [][]byte{
		[]byte("CPU run clock:"),
		[]byte("CPU data hazard count:"),
		[]byte("CPU data hazard delayed cycles:"),
		[]byte("CPU control hazard count:"),
		[]byte("CPU control hazard delayed cycles:"),
		[]byte("CPU executed valid instructions:"),
		[]byte("CPI ="),
	}
)

// cpiField is the index of the CPI field, the only floating-point
// field and always the last one in a block.
const cpiField = 6

// NewReader constructs a reader that parses metric blocks from r.
// fileName is used in error messages and positions; it is purely
// diagnostic. label is attached to every Result the reader produces.
func NewReader(r io.Reader, fileName, label string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, label)
	return reader
}

// Reset resets the reader to begin reading from a new input.
// Re-invoking a reader on the same text re-extracts the same records
// from scratch.
func (r *Reader) Reset(ior io.Reader, fileName, label string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.err = nil
	r.line = nil
	r.lineNum = 0
	r.pending = false
	r.nField = 0
	r.result.Label = label
	r.result.Name = ""
	r.result.fileName = fileName
	r.result.line = 0
}

// Scan advances the reader to the next complete metric block and
// reports whether one was found. The caller should use the Result
// method to get the parsed block. If Scan reaches EOF or an I/O error
// occurs, it returns false, in which case the caller should use the
// Err method to check for errors.
//
// A start marker whose block is missing one or more fields produces
// no record: the block is dropped silently, either when the next
// start marker is found or at end of input.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for {
		if len(r.line) == 0 {
			if !r.s.Scan() {
				break
			}
			r.lineNum++
			r.line = r.s.Bytes()
			continue
		}

		im := bytes.Index(r.line, marker)
		il := -1
		if r.pending {
			il = bytes.Index(r.line, fieldLabels[r.nField])
		}

		switch {
		case il >= 0 && (im < 0 || il < im):
			// The block's next field label comes first.
			rest := r.line[il+len(fieldLabels[r.nField]):]
			tok, n := numberToken(rest, r.nField == cpiField)
			r.line = rest[n:]
			if tok == nil {
				// Label with no numeric value attached.
				// Keep searching for another occurrence.
				continue
			}
			if r.nField == cpiField {
				v, err := strconv.ParseFloat(string(tok), 64)
				if err != nil {
					continue
				}
				r.result.CPI = v
				r.pending = false
				return true
			}
			r.result.counts()[r.nField].SetString(string(tok), 10)
			r.nField++

		case im >= 0:
			// A start marker. If a block is still pending it
			// is incomplete and is silently dropped. Text that
			// merely resembles a marker (no valid name) is
			// skipped without disturbing the pending block.
			r.line = r.startBlock(r.line[im+len(marker):])

		default:
			// Nothing of interest in the rest of this line.
			r.line = nil
		}
	}

	// EOF. A block still pending here is incomplete and dropped.
	r.pending = false
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.result.fileName, r.lineNum, err)
	}
	return false
}

// startBlock attempts to parse the test name of a start marker from
// rest, which begins just past the "-------Running " literal. On
// success it begins a new pending block. It returns the unconsumed
// tail of rest.
//
// The name is the maximal word/hyphen run minus the seven trailing
// hyphens that close the marker; a run without that suffix is not a
// marker at all.
func (r *Reader) startBlock(rest []byte) []byte {
	run := nameRun(rest)
	if len(run) <= len(nameEnd) || !bytes.HasSuffix(run, nameEnd) {
		return rest
	}
	r.result.Name = string(run[:len(run)-len(nameEnd)])
	r.result.line = r.lineNum
	r.pending = true
	r.nField = 0
	return rest[len(run):]
}

// Result returns the metric block that was just read by Scan. The
// Reader owns the returned Result and overwrites it on the next call
// to Scan.
func (r *Reader) Result() *Result {
	return &r.result
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// nameRun returns the maximal leading run of word characters and
// hyphens in b.
func nameRun(b []byte) []byte {
	i := 0
	for i < len(b) && (isWordByte(b[i]) || b[i] == '-') {
		i++
	}
	return b[:i]
}

func isWordByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_'
}

// numberToken extracts a numeric token from the start of b, after
// optional spaces and tabs. For count fields the token is a run of
// decimal digits; for the CPI field it may also contain one decimal
// point. It returns the token (nil if b does not start with one) and
// the number of bytes inspected, which the caller must consume to
// guarantee forward progress.
func numberToken(b []byte, float bool) (tok []byte, n int) {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	start, digits, dot := i, 0, false
	for i < len(b) {
		c := b[i]
		if '0' <= c && c <= '9' {
			digits++
			i++
			continue
		}
		if float && c == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	if digits == 0 {
		return nil, i
	}
	return b[start:i], i
}
