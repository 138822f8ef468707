// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// A Files reads metric blocks from an ordered sequence of log files.
//
// Each Result carries a configuration label derived from the file it
// was read from: the base file name up to (not including) the first
// dot, so "D:stall_C:ANT.stats" yields the label "D:stall_C:ANT".
// Duplicate derived labels are disambiguated by appending "#N". If
// AllowLabels is set, entries in Paths may be of the form label=path,
// and the label part is used verbatim (without disambiguation).
//
// Files are processed strictly in order: each file is opened, fully
// read, and closed before the next is opened.
type Files struct {
	// Paths is the list of file names to read in.
	//
	// If AllowLabels is set, these strings may be of the form
	// label=path.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	//
	// This is generally the desired behavior when the file list
	// comes from command-line flags.
	AllowStdin bool

	// AllowLabels indicates that custom labels are allowed in
	// Paths.
	AllowLabels bool

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []input

	reader  Reader
	file    *os.File
	isStdin bool
	err     error
}

type input struct {
	path      string
	label     string
	isStdin   bool
	isLabeled bool
}

// Label derives a configuration label from a log file path: the base
// name of the path up to the first dot.
func Label(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// init does first-use initialization of f.
func (f *Files) init() {
	// Set f.inputs to a non-nil slice to indicate initialization
	// has happened.
	f.inputs = []input{}

	// Parse the paths. Doing this first simplifies iteration and
	// disambiguation.
	labelCount := make(map[string]int)
	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, input{"-", "-", true, false})
	}
	for _, path := range f.Paths {
		label := ""
		isLabeled := false
		if i := strings.Index(path, "="); f.AllowLabels && i >= 0 {
			label, path = path[:i], path[i+1:]
			isLabeled = true
		} else {
			label = Label(path)
			labelCount[label]++
		}

		isStdin := f.AllowStdin && path == "-"
		f.inputs = append(f.inputs, input{path, label, isStdin, isLabeled})
	}

	// If distinct paths reduce to the same label, disambiguate.
	// Otherwise the report has rows whose configuration column is
	// indistinguishable, which is generally not what users are
	// expecting. For explicit labels, we do exactly what the user
	// says.
	labelI := make(map[string]int)
	for i := range f.inputs {
		inp := &f.inputs[i]
		if inp.isLabeled || labelCount[inp.label] == 1 {
			continue
		}
		orig := inp.label
		inp.label = fmt.Sprintf("%s#%d", orig, labelI[orig])
		labelI[orig]++
	}
}

// Scan advances the reader to the next metric block in the sequence
// of files and reports whether one was found. The caller should use
// the Result method to get the parsed block. If Scan reaches the end
// of the file sequence, or if an I/O error occurs, it returns false.
// In this case, the caller should use the Err method to check for
// errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	if f.inputs == nil {
		f.init()
	}

	for {
		if f.file == nil {
			// Open the next file.
			if len(f.inputs) == 0 {
				// We're out of inputs.
				return false
			}
			inp := f.inputs[0]
			f.inputs = f.inputs[1:]

			if inp.isStdin {
				f.isStdin, f.file = true, os.Stdin
			} else {
				file, err := os.Open(inp.path)
				if err != nil {
					f.err = err
					return false
				}
				f.isStdin, f.file = false, file
			}

			f.reader.Reset(f.file, inp.path, inp.label)
		}

		// Try to get the next block.
		if f.reader.Scan() {
			return true
		}
		err := f.reader.Err()
		if err != nil {
			f.err = err
			break
		}
		// Just an EOF. Close this file and open the next.
		if !f.isStdin {
			f.file.Close()
		}
		f.file = nil
	}
	// We're out of files.
	return false
}

// Result returns the metric block that was just read by Scan.
// See Reader.Result.
func (f *Files) Result() *Result {
	return f.reader.Result()
}

// Err returns the I/O error that stopped Scan, if any.
// If Scan stopped because it read each file to completion,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}
