package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <plan-id> <user-id>",
		Short: "Assign a user to a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			up, err := app.Assignments.Assign(ctx, actor, args[0], args[1])
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("Assigned %s to plan %s (user plan %s)", args[1], args[0], up.ID))
			return nil
		},
	}
}

func newUnassignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <plan-id> <user-id>",
		Short: "Remove a user from a plan before any work is submitted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			if err := app.Assignments.Unassign(ctx, actor, args[0], args[1]); err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("Unassigned %s from plan %s", args[1], args[0]))
			return nil
		},
	}
}
