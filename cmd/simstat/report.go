// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpusim/simstat/simfmt"
	"github.com/cpusim/simstat/simstat"
)

var (
	flagOutput   string
	flagDir      string
	flagHTML     bool
	flagCSV      bool
	flagSummary  bool
	flagChartDir string
)

var reportCmd = &cobra.Command{
	Use:   "report [label=]logfile...",
	Short: "Render a report from simulator log files",
	Long: `Report reads the named simulator log files, extracts every metric
block, and writes one table per registered test. A "label=path"
argument overrides the label derived from the file name; "-" reads
standard input. With --dir, every *.stats file in the directory is
read in lexical order, after the named files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.OutOrStdout(), args)
	},
}

func runReport(stdout io.Writer, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = viper.GetStringSlice("files")
	}
	if flagDir != "" {
		found, err := filepath.Glob(filepath.Join(flagDir, "*.stats"))
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files (pass log files, use --dir, or set \"files\" in the config)")
	}

	c := simstat.NewCollection(tests())
	files := simfmt.Files{Paths: paths, AllowStdin: true, AllowLabels: true}
	for files.Scan() {
		if err := c.Add(files.Result()); err != nil {
			return err
		}
	}
	if err := files.Err(); err != nil {
		return err
	}
	tables := c.Tables()

	var buf bytes.Buffer
	switch {
	case flagHTML:
		buf.WriteString(htmlHeader)
		simstat.FormatHTML(&buf, tables)
		buf.WriteString(htmlFooter)
	case flagCSV:
		simstat.FormatCSV(&buf, tables)
	default:
		simstat.FormatMarkdown(&buf, tables)
		if flagSummary {
			simstat.FormatSummary(&buf, simstat.Summarize(tables))
		}
	}

	if flagChartDir != "" {
		if err := simstat.Chart(tables, flagChartDir); err != nil {
			return err
		}
	}

	// Flag beats config beats the default name.
	out := viper.GetString("output")
	if out == "" {
		out = "REPORT.md"
	}
	if out == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(out, buf.Bytes(), 0666)
}

var htmlHeader = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Simulator Run Report</title>
<style>
.simstat { border-collapse: collapse; }
.simstat th:nth-child(1) { text-align: left; }
.simstat tbody td:nth-child(1n+2) { text-align: right; padding: 0em 1em; }
.simstat tr th { border-top: 1px solid #666; border-bottom: 1px solid #ccc; }
</style>
</head>
<body>
`
var htmlFooter = `</body>
</html>
`

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the report to `file` (default REPORT.md); - for stdout")
	reportCmd.Flags().StringVar(&flagDir, "dir", "", "also read every *.stats file in `dir`, in lexical order")
	reportCmd.Flags().BoolVar(&flagHTML, "html", false, "render the report as an HTML table")
	reportCmd.Flags().BoolVar(&flagCSV, "csv", false, "render the report in CSV form")
	reportCmd.Flags().BoolVar(&flagSummary, "summary", false, "append per-test CPI summary statistics")
	reportCmd.Flags().StringVar(&flagChartDir, "chart-dir", "", "write a per-test CPI bar chart PNG into `dir`")
	viper.BindPFlag("output", reportCmd.Flags().Lookup("output"))
}
