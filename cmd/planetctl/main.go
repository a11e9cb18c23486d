package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "planetctl",
		Short:        "Operator tooling for the planet generation server",
		SilenceUsage: true,
	}
	root.AddCommand(newTokenCmd(), newGenerateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
