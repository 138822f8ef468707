// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpusim/simstat/simfmt"
	"github.com/cpusim/simstat/simstat"
	"github.com/cpusim/simstat/storage/db"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

var (
	flagDBDriver string
	flagDB       string
)

var saveCmd = &cobra.Command{
	Use:   "save [label=]logfile...",
	Short: "Archive extracted records in a database",
	Long: `Save reads the named simulator log files and stores every extracted
record in the archive database as a single run, so reports can be
regenerated later without the original logs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, id, err := runSave(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d record(s) as run %s\n", n, id)
		return nil
	},
}

func runSave(args []string) (n int, runID string, err error) {
	ctx := context.Background()

	// Validate test names up front so a bad log doesn't leave a
	// half-written run behind.
	c := simstat.NewCollection(tests())
	var recs []*simfmt.Result
	files := simfmt.Files{Paths: args, AllowStdin: true, AllowLabels: true}
	for files.Scan() {
		r := files.Result()
		if err := c.Add(r); err != nil {
			return 0, "", err
		}
		recs = append(recs, r.Clone())
	}
	if err := files.Err(); err != nil {
		return 0, "", err
	}

	d, err := db.OpenSQL(flagDBDriver, flagDB)
	if err != nil {
		return 0, "", fmt.Errorf("open archive: %v", err)
	}
	defer d.Close()

	run, err := d.NewRun(ctx)
	if err != nil {
		return 0, "", err
	}
	for _, r := range recs {
		if err := run.InsertRecord(ctx, r); err != nil {
			return 0, "", err
		}
	}
	return len(recs), run.ID, nil
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringVar(&flagDBDriver, "db-driver", "sqlite3", "database `driver`: sqlite3 or mysql")
	saveCmd.Flags().StringVar(&flagDB, "db", "simstat.db", "database connection `dsn`")
}
