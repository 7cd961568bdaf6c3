package commands

import (
	"errors"
	"fmt"

	"github.com/vineshkkmr/job-board/internal/domain"

	"github.com/spf13/cobra"
)

var errMissingEmail = errors.New("please provide an email address")

func newSetAdminCmd(env *Env) *cobra.Command {
	var syncDocument bool

	cmd := &cobra.Command{
		Use:   "set-admin EMAIL",
		Short: "Grant the admin role claim to a user",
		Long: `Resolves EMAIL in the identity provider and sets its role claim to "admin".

The user record in the database is left untouched unless --sync-document is given.
The new role applies to the next freshly minted token.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || args[0] == "" {
				return errMissingEmail
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			email := args[0]

			roles, closeFn, err := env.RoleUsecase(cmd.Context(), syncDocument)
			if err != nil {
				return fmt.Errorf("error setting admin role: %w", err)
			}
			defer closeFn()

			if _, err := roles.AssignRole(cmd.Context(), email, domain.RoleAdmin, syncDocument); err != nil {
				return fmt.Errorf("error setting admin role: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully set admin role for user %s\n", email)
			return nil
		},
	}

	cmd.Flags().BoolVar(&syncDocument, "sync-document", false, "Also write role=admin to the user's database record")
	return cmd
}
