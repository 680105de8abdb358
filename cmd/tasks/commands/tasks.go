package commands

import (
	"context"
	"fmt"

	"taskManager/internal/app"
	"taskManager/internal/console"
	"taskManager/internal/models/task"
	"taskManager/internal/transfer"

	"github.com/spf13/cobra"
)

func newAddCommand(configPath *string) *cobra.Command {
	var title, description, status, due string

	cmd := &cobra.Command{
		Use:   "add",
		Args:  cobra.NoArgs,
		Short: "Add a task",
		Example: `  tasks add --title "Pay rent" --due 2025-01-10
  tasks add --title "Write report" --status "en progreso" --due 2025-02-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := task.Parse(title, description, status, due)
			if err != nil {
				return err
			}
			return withApp(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				id, err := a.Service().AddTask(ctx, tk)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tarea '%s' insertada exitosamente con ID: %d\n", tk.Title, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&status, "status", "s", "", fmt.Sprintf("task status (default %q)", task.DefaultStatus))
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Short:   "List all tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				a.Menu(cmd.InOrStdin(), cmd.OutOrStdout()).ViewAll(ctx)
				return nil
			})
		},
	}
}

func newUpcomingCommand(configPath *string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Args:  cobra.NoArgs,
		Short: "List tasks due from today through the next few days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must be non-negative, got %d", days)
			}
			return withApp(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				window := a.UpcomingDays()
				if cmd.Flags().Changed("days") {
					window = days
				}
				console.NewMenu(a.Service(), a.Transfer(), window, cmd.InOrStdin(), cmd.OutOrStdout()).ViewUpcoming(ctx)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "window length in days (default from config)")

	return cmd
}

func newExportCommand(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Args:  cobra.NoArgs,
		Short: "Export all tasks to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				tr := transferFor(a, file)
				n, err := tr.Export(ctx)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No se encontraron tareas en la base de datos para exportar.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Todas las %d tareas se exportaron exitosamente a '%s'.\n", n, tr.Path())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "target file (default from config)")

	return cmd
}

func newImportCommand(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Args:  cobra.NoArgs,
		Short: "Import tasks from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				res, err := transferFor(a, file).Import(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, d := range res.Skipped {
					fmt.Fprintf(out, "Saltando datos de tarea inválidos: %s\n", d)
				}
				for _, d := range res.Failed {
					fmt.Fprintf(out, "No se pudo insertar la tarea: %s\n", d)
				}
				fmt.Fprintf(out, "Se importaron %d de %d tareas exitosamente.\n", res.Imported, res.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "source file (default from config)")

	return cmd
}

func transferFor(a *app.App, file string) *transfer.Transfer {
	if file == "" {
		return a.Transfer()
	}
	return transfer.New(a.Service(), file)
}
