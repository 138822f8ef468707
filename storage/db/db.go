// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db provides a local archive of parsed simulator metric
// records, so reports can be regenerated without re-parsing logs.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"
	"text/template"

	"github.com/cpusim/simstat/simfmt"
)

// DB is a high-level interface to the record archive. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun    *sql.Stmt
	insertRecord *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		return nil, err
	}
	return d, nil
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
//
// Counts are stored as text: run clocks can exceed any fixed-width
// integer column and are always rendered verbatim anyway.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}}
);
CREATE TABLE IF NOT EXISTS Records (
	RunID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Config VARCHAR(255),
	Test VARCHAR(255),
	RunClock VARCHAR(255),
	DataHazardCount VARCHAR(255),
	DataHazardDelayedCycles VARCHAR(255),
	ControlHazardCount VARCHAR(255),
	ControlHazardDelayedCycles VARCHAR(255),
	ValidInsts VARCHAR(255),
	CPI DOUBLE,
	PRIMARY KEY (RunID, RecordID),
{{if not .sqlite3}}
	INDEX (Test(100)),
{{end}}
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordsTest ON Records(Test);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	q := "INSERT INTO Runs() VALUES ()"
	if driverName == "sqlite3" {
		q = "INSERT INTO Runs DEFAULT VALUES"
	}
	db.insertRun, err = db.sql.Prepare(q)
	if err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare(
		"INSERT INTO Records(RunID, RecordID, Config, Test, RunClock, " +
			"DataHazardCount, DataHazardDelayedCycles, " +
			"ControlHazardCount, ControlHazardDelayedCycles, " +
			"ValidInsts, CPI) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// A Run is a batch of records inserted together under one run ID.
type Run struct {
	// ID is the archive-assigned identifier of this run.
	ID string

	// id is the numeric value of ID used as the primary key.
	id int64
	// recordid is the index of the next record to insert.
	recordid int64
	// db is the underlying database this run is going to.
	db *DB
}

// NewRun starts a new batch of records.
func (db *DB) NewRun(ctx context.Context) (*Run, error) {
	res, err := db.insertRun.ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Run{
		ID: fmt.Sprint(i),
		id: i,
		db: db,
	}, nil
}

// InsertRecord stores a single metric record in the run.
func (u *Run) InsertRecord(ctx context.Context, r *simfmt.Result) error {
	_, err := u.db.insertRecord.ExecContext(ctx,
		u.id, u.recordid,
		r.Label, r.Name,
		r.RunClock.String(),
		r.DataHazardCount.String(),
		r.DataHazardDelayedCycles.String(),
		r.ControlHazardCount.String(),
		r.ControlHazardDelayedCycles.String(),
		r.ValidInsts.String(),
		r.CPI)
	if err != nil {
		return err
	}
	u.recordid++
	return nil
}

// ListRecords returns every archived record for the named test, in
// insertion order.
func (db *DB) ListRecords(ctx context.Context, test string) ([]*simfmt.Result, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT Config, Test, RunClock, DataHazardCount, DataHazardDelayedCycles, "+
			"ControlHazardCount, ControlHazardDelayedCycles, ValidInsts, CPI "+
			"FROM Records WHERE Test = ? ORDER BY RunID, RecordID", test)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*simfmt.Result
	for rows.Next() {
		r := new(simfmt.Result)
		var clock, dh, dhc, ch, chc, insts string
		if err := rows.Scan(&r.Label, &r.Name, &clock, &dh, &dhc, &ch, &chc, &insts, &r.CPI); err != nil {
			return nil, err
		}
		for _, c := range []struct {
			dst *big.Int
			s   string
		}{
			{&r.RunClock, clock},
			{&r.DataHazardCount, dh},
			{&r.DataHazardDelayedCycles, dhc},
			{&r.ControlHazardCount, ch},
			{&r.ControlHazardDelayedCycles, chc},
			{&r.ValidInsts, insts},
		} {
			if _, ok := c.dst.SetString(c.s, 10); !ok {
				return nil, fmt.Errorf("corrupt count %q in archive", c.s)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRuns returns the number of runs in the archive.
func (db *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open
// resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.insertRecord.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
