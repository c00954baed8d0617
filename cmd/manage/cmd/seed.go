package cmd

import (
	"fmt"

	"github.com/ataredge/tutorhub/internal/app"
	"github.com/ataredge/tutorhub/internal/config"
	"github.com/ataredge/tutorhub/internal/service"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tutor",
		Short: "Insert the sample tutor profile unless its email is taken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				created, err := a.TutorService.SeedTutor(service.SampleTutor())
				if err != nil {
					return err
				}
				if !created {
					fmt.Fprintln(cmd.OutOrStdout(), "sample tutor already exists")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sample tutor created")
				return nil
			})
		},
	})
	return cmd
}

// withApp runs fn against a fully wired app without starting workers.
func withApp(fn func(*app.App) error) error {
	cfg := config.Load()
	setupLogger(cfg)

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer func() { _ = a.Close() }()

	return fn(a)
}
