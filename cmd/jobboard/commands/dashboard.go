package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vineshkkmr/job-board/internal/client/guard"
	"github.com/vineshkkmr/job-board/internal/domain"

	"github.com/spf13/cobra"
)

const passwordEnv = "JOBBOARD_PASSWORD"

// consoleNavigator turns guard navigation into console output.
type consoleNavigator struct {
	w io.Writer
}

func (n consoleNavigator) Redirect(path string) {
	fmt.Fprintf(n.w, "redirect: %s\n", path)
}

func (n consoleNavigator) Notify(message string) {
	fmt.Fprintln(n.w, message)
}

func newDashboardCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Sign in and print the admin dashboard",
		Long: `Signs in with email and password, verifies the admin role claim against the API
and prints the dashboard statistics. The password is read from --password or ` + passwordEnv + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			nav := consoleNavigator{w: cmd.ErrOrStderr()}

			var session guard.Session
			if email != "" && password != "" {
				s, err := env.SignIn(cmd.Context(), email, password)
				if err != nil {
					return fmt.Errorf("sign in failed: %w", err)
				}
				session = s
			}

			maxAttempts := 0
			if env.Config != nil {
				maxAttempts = env.Config.GuardMaxAttempts
			}
			g := guard.New(env.API, nav, guard.Config{MaxAttempts: maxAttempts})

			var stats *domain.AdminStats
			decision, err := g.Run(cmd.Context(), session, domain.RoleAdmin, func(ctx context.Context) error {
				token, err := session.IDToken(ctx, false)
				if err != nil {
					return err
				}
				stats, err = env.API.AdminStats(ctx, token)
				return err
			})
			if err != nil {
				if errors.Is(err, guard.ErrNetworkFailure) || errors.Is(err, guard.ErrUnauthorized) {
					return errors.New(guard.UnauthorizedMessage)
				}
				if decision.Permitted() {
					return fmt.Errorf("failed to load dashboard data: %w", err)
				}
				return err
			}

			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (defaults to $"+passwordEnv+")")
	return cmd
}

func printStats(w io.Writer, stats *domain.AdminStats) {
	fmt.Fprintf(w, "Admin Dashboard\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Fprintf(w, "Total Users:        %d\n", stats.TotalUsers)

	roles := make([]string, 0, len(stats.UsersByRole))
	for role := range stats.UsersByRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		fmt.Fprintf(w, "  %-17s %d\n", role+"s:", stats.UsersByRole[role])
	}

	fmt.Fprintf(w, "Total Jobs:         %d\n", stats.TotalJobs)
	fmt.Fprintf(w, "Active Jobs:        %d\n", stats.ActiveJobs)
	fmt.Fprintf(w, "Total Applications: %d\n", stats.TotalApplications)

	if len(stats.RecentJobs) == 0 {
		return
	}
	fmt.Fprintf(w, "\nRecent Jobs\n")
	for _, job := range stats.RecentJobs {
		fmt.Fprintf(w, "  %s at %s (%s): %d applications\n", job.Title, job.Company, job.Location, job.Applications)
	}
}
