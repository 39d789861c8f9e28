package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for newtonring.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newtonring",
		Short: "Measure lens curvature from Newton rings interferograms",
		Long: `newtonring analyzes Newton rings interference patterns.

Given an interferogram (local file or URL) it locates the ring center,
builds a radial intensity profile, extracts the dark fringe radii and
fits r² = slope*n + intercept. The radius of curvature follows from
R = slope / wavelength.

Calibration (pixel scale and wavelength) comes from a YAML config file;
without one the sodium D-line defaults apply.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewMeasureCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
