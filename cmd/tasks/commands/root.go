package commands

import (
	"context"

	"taskManager/internal/app"
	"taskManager/internal/config"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it starts the interactive menu.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tasks",
		Short:         "Personal task tracker",
		Long:          `Track tasks with due dates, list what is coming up and move them in and out of JSON files.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, configPath, func(ctx context.Context, a *app.App) error {
				return a.Menu(cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
			})
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yml)")

	rootCmd.AddCommand(
		newAddCommand(&configPath),
		newListCommand(&configPath),
		newUpcomingCommand(&configPath),
		newExportCommand(&configPath),
		newImportCommand(&configPath),
	)

	return rootCmd
}

// withApp loads config, starts the app for the duration of fn and always shuts it down.
func withApp(cmd *cobra.Command, configPath string, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	return fn(ctx, a)
}
