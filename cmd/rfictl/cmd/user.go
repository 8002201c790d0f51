package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buildline/rfitrack/internal/app"
	"github.com/buildline/rfitrack/internal/model"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Staff user management",
	}

	cmd.AddCommand(userCreateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var name, role string

	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create a staff user; the password is read from RFICTL_PASSWORD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("RFICTL_PASSWORD")
			if password == "" {
				return errors.New("RFICTL_PASSWORD is not set")
			}
			return withApp(cmd, func(a *app.App) error {
				user, err := a.AuthService.CreateUser(cmd.Context(), args[0], name, password, role)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "created user", user.ID)
				return printJSON(cmd.OutOrStdout(), user)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", model.UserRoleStaff, "admin, manager or staff")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
