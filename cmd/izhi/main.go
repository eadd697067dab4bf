// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "izhi",
		Short: "Modular spiking network simulator",
		Long: `izhi simulates modular small-world networks of Izhikevich spiking
neurons with per-synapse conduction delays, driven by Poisson
background current, and records spike rasters and per-module firing
rates.`,
	}

	rootCmd.PersistentFlags().String("config", "izhi.yaml", "YAML config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("izhi version %s\n", version)
		},
	}
}

// loadConfig reads the config named by the --config flag, applying
// defaults when the default file does not exist
func loadConfig(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := cmd.Flags().Changed("config")
	return LoadConfig(path, explicit)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one modular network",
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("p") {
				cf.RewireP, _ = cmd.Flags().GetFloat64("p")
			}
			if cmd.Flags().Changed("msec") {
				cf.MSec, _ = cmd.Flags().GetInt("msec")
			}
			if cmd.Flags().Changed("seed") {
				cf.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("out") {
				cf.OutDir, _ = cmd.Flags().GetString("out")
			}
			if cmd.Flags().Changed("db") {
				cf.DBFile, _ = cmd.Flags().GetString("db")
			}
			_, err = RunSim(cf, cf.RewireP)
			return err
		},
	}
	cmd.Flags().Float64("p", 0.1, "rewiring probability")
	cmd.Flags().Int("msec", 1000, "milliseconds to simulate")
	cmd.Flags().Int64("seed", 42, "random seed")
	cmd.Flags().String("out", ".", "output directory for raster and rate tables")
	cmd.Flags().String("db", "", "sqlite database file to record the run in")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Simulate one run per configured rewiring probability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cf.OutDir, _ = cmd.Flags().GetString("out")
			}
			if cmd.Flags().Changed("db") {
				cf.DBFile, _ = cmd.Flags().GetString("db")
			}
			for _, p := range cf.SweepP {
				if _, err := RunSim(cf, p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("out", ".", "output directory for raster and rate tables")
	cmd.Flags().String("db", "", "sqlite database file to record the runs in")
	return cmd
}
