package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "freightsim",
		Short: "Freight network dispatch simulator",
		Long: `freightsim simulates a network of nodes exchanging freight orders that a
fleet of transporters picks up and delivers, and reports delivery KPIs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(newRunCommand(), newServeCommand())
	return root
}
