package cmd

import (
	"fmt"

	"github.com/ataredge/tutorhub/internal/app"
	"github.com/ataredge/tutorhub/internal/config"
	"github.com/ataredge/tutorhub/internal/logger"
	"github.com/spf13/cobra"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrators",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "grant <email>",
		Short: "Give an existing account access to the admin dashboard",
		Long:  "Give an existing account access to the admin dashboard.\nThe change applies from the account's next login.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				err := a.AuthService.GrantAdmin(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func setupLogger(cfg *config.Config) {
	logger.Init(logger.Options{
		Development: true,
		Environment: cfg.AppEnv,
		AppName:     cfg.AppName,
	})
}
