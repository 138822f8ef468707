// Copyright 2024 The simstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Simstat extracts performance metrics from pipeline simulator logs
// and renders them as per-test report tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultTests is the registry of test programs the simulator ships
// with. A config file's "tests" key replaces it wholesale.
var defaultTests = []string{
	"ackermann",
	"add",
	"div",
	"dummy",
	"if-else",
	"load-store",
	"matrix-mul",
	"quicksort",
	"shift",
	"unalign",
}

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "simstat",
	Short: "simstat summarizes pipeline simulator runs",
	Long: `Simstat reads simulator log files, extracts the per-run metric
blocks printed by the simulator, groups them by test program, and
renders per-test report tables.`,
	SilenceUsage: true,
}

// Execute runs the root command and all registered subcommands. It
// prints any returned error and exits with a non-zero status code on
// failure.
func Execute() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "simstat:", err)
		os.Exit(1)
	}
}

// initConfig loads the optional config file. A missing default config
// is fine; a config named explicitly with --config must exist.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("simstat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return
		}
		if os.IsNotExist(err) && cfgFile == "" {
			return
		}
		fmt.Fprintln(os.Stderr, "simstat:", err)
		os.Exit(1)
	}
}

// tests returns the active test registry.
func tests() []string {
	if t := viper.GetStringSlice("tests"); len(t) > 0 {
		return t
	}
	return defaultTests
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default simstat.yaml in the working directory)")
}
