package main

import (
	"os"

	"github.com/ataredge/tutorhub/cmd/manage/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "manage",
		Short:        "Operational tasks for the tutor site",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.AdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
