package cmd

import (
	"context"
	"fmt"

	"github.com/buildline/rfitrack/internal/app"
	"github.com/buildline/rfitrack/internal/service"
	"github.com/spf13/cobra"
)

func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete records and everything they own",
		Long: `Hard-deletes a record and its dependents, removing attachment files
from storage. There is no undo. Run "rfictl preview" first to see what
would be removed.`,
	}

	cmd.AddCommand(deleteEntityCmd("rfi", func(a *app.App) deleteFunc { return a.DeletionService.DeleteRFI }))
	cmd.AddCommand(deleteEntityCmd("project", func(a *app.App) deleteFunc { return a.DeletionService.DeleteProject }))
	cmd.AddCommand(deleteEntityCmd("client", func(a *app.App) deleteFunc { return a.DeletionService.DeleteClient }))
	cmd.AddCommand(deleteUserCmd())
	return cmd
}

type deleteFunc func(context.Context, string) (*service.DeletionReport, error)

func deleteEntityCmd(entity string, pick func(*app.App) deleteFunc) *cobra.Command {
	return &cobra.Command{
		Use:   entity + " <id>",
		Short: fmt.Sprintf("Delete a %s and its dependents", entity),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				report, err := pick(a)(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, warning := range report.Warnings() {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning)
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func deleteUserCmd() *cobra.Command {
	var reassignTo string

	cmd := &cobra.Command{
		Use:   "user <id>",
		Short: "Delete a staff user, optionally handing their records to another user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				var target *string
				if reassignTo != "" {
					target = &reassignTo
				}
				report, err := a.DeletionService.DeleteUser(cmd.Context(), args[0], target)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}

	cmd.Flags().StringVar(&reassignTo, "reassign-to", "", "user id that takes over RFIs, responses, projects and stakeholder links")
	return cmd
}

func PreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what a delete would remove without changing anything",
	}

	cmd.AddCommand(previewEntityCmd("rfi", func(a *app.App) previewFunc { return a.DeletionService.PreviewRFI }))
	cmd.AddCommand(previewEntityCmd("project", func(a *app.App) previewFunc { return a.DeletionService.PreviewProject }))
	cmd.AddCommand(previewEntityCmd("client", func(a *app.App) previewFunc { return a.DeletionService.PreviewClient }))
	cmd.AddCommand(&cobra.Command{
		Use:   "user <id>",
		Short: "Count the records that reference a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				affected, err := a.DeletionService.PreviewUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), affected)
			})
		},
	})
	return cmd
}

type previewFunc func(context.Context, string) (*service.RecordCounts, error)

func previewEntityCmd(entity string, pick func(*app.App) previewFunc) *cobra.Command {
	return &cobra.Command{
		Use:   entity + " <id>",
		Short: fmt.Sprintf("Count what deleting a %s would remove", entity),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				counts, err := pick(a)(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), counts)
			})
		},
	}
}
