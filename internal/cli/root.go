package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/service"
	"github.com/spf13/cobra"
)

// ActorEnv names the environment variable consulted when --as is not given.
const ActorEnv = "PLANFLOW_USER"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Users         service.UserService
	Plans         service.PlanService
	Assignments   service.AssignmentService
	Activities    service.ActivityService
	Notifications service.NotificationService
	Import        service.ImportService

	// actorID is bound to the root --as flag.
	actorID string
}

// NewRootCmd creates the top-level "planflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planflow",
		Short:         "Plan assignment and approval workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.actorID, "as", os.Getenv(ActorEnv),
		"ID of the user to act as (default $"+ActorEnv+")")

	root.AddCommand(
		newUserCmd(app),
		newPlanCmd(app),
		newAssignCmd(app),
		newUnassignCmd(app),
		newActivityCmd(app),
		newNotificationCmd(app),
	)

	return root
}

// actor resolves the --as user into workflow claims.
func (a *App) actor(ctx context.Context) (domain.Actor, error) {
	if a.actorID == "" {
		return domain.Actor{}, fmt.Errorf("no acting user: pass --as or set %s", ActorEnv)
	}
	return a.Users.Actor(ctx, a.actorID)
}

func printLine(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}
