package main

import (
	"os"

	"github.com/buildline/rfitrack/cmd/rfictl/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rfictl",
		Short:        "Administrative tools for the RFI tracker",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.DeleteCmd())
	rootCmd.AddCommand(cmd.PreviewCmd())
	rootCmd.AddCommand(cmd.UserCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
