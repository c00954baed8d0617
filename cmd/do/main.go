package main

import (
	"os"

	"github.com/ataredge/tutorhub/cmd/do/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "do",
		Short: "Development tools for the tutor site",
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.GenCmd())
	rootCmd.AddCommand(cmd.CSSCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
