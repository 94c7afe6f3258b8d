package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planflow/internal/cli/formatter"
	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/alexanderramin/planflow/internal/repository"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanUpdateCmd(app),
		newPlanDeleteCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanDetailCmd(app),
		newPlanProgressCmd(app),
		newPlanMineCmd(app),
	)

	return cmd
}

// planFlags collects a plan definition from flags when no --file is given.
type planFlags struct {
	file        string
	name        string
	description string
	start       string
	complete    string
	conditions  []string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Plan definition file (.json, .yaml)")
	cmd.Flags().StringVar(&f.name, "name", "", "Plan name")
	cmd.Flags().StringVar(&f.description, "description", "", "Plan description")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.complete, "complete", "", "Complete date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVarP(&f.conditions, "condition", "c", nil, `Condition as "name" or "name:minutes" (repeatable)`)
	cmd.MarkFlagsMutuallyExclusive("file", "name")
}

func (f *planFlags) input() (contract.PlanInput, error) {
	in := contract.PlanInput{Name: f.name, Description: f.description}
	var err error
	if in.StartDate, err = parseDateFlag("start", f.start); err != nil {
		return in, err
	}
	if in.CompleteDate, err = parseDateFlag("complete", f.complete); err != nil {
		return in, err
	}
	for _, raw := range f.conditions {
		c, err := parseCondition(raw)
		if err != nil {
			return in, err
		}
		in.Conditions = append(in.Conditions, c)
	}
	return in, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: --%s is required", domain.ErrValidation, name)
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid --%s %q (expected YYYY-MM-DD)", domain.ErrValidation, name, value)
	}
	return t, nil
}

// parseCondition reads "name" or "name:minutes".
func parseCondition(raw string) (contract.ConditionInput, error) {
	name, est, found := strings.Cut(raw, ":")
	c := contract.ConditionInput{Name: strings.TrimSpace(name)}
	if !found {
		return c, nil
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(est))
	if err != nil {
		return c, fmt.Errorf("%w: condition %q: invalid minutes %q", domain.ErrValidation, raw, est)
	}
	c.EstTime = minutes
	return c, nil
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a plan from flags or a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}

			var plan *domain.Plan
			if f.file != "" {
				plan, err = app.Import.ImportPlan(ctx, actor, f.file)
			} else {
				in, perr := f.input()
				if perr != nil {
					return perr
				}
				plan, err = app.Plans.CreatePlan(ctx, actor, in)
			}
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("Created plan %s %s", formatter.Bold(plan.Name), formatter.Dim(plan.ID)))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newPlanUpdateCmd(app *App) *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "update <plan-id>",
		Short: "Replace a plan's fields and conditions",
		Long: "Replace a plan's fields and conditions. Conditions are matched by name: " +
			"matches keep their progress, new names are handed to every assignee and " +
			"missing names are removed with their progress.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}

			var plan *domain.Plan
			if f.file != "" {
				plan, err = app.Import.ReimportPlan(ctx, actor, args[0], f.file)
			} else {
				in, perr := f.input()
				if perr != nil {
					return perr
				}
				plan, err = app.Plans.UpdatePlan(ctx, actor, args[0], in)
			}
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("Updated plan %s %s", formatter.Bold(plan.Name), formatter.Dim(plan.ID)))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan with its conditions and assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			if err := app.Plans.DeletePlan(ctx, actor, args[0]); err != nil {
				return err
			}
			printLine(cmd, "Deleted plan "+args[0])
			return nil
		},
	}
}

func newPlanListCmd(app *App) *cobra.Command {
	var status, department string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans of your tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			plans, err := app.Plans.GetAll(ctx, actor, repository.PlanFilter{
				Status:       domain.PlanStatus(strings.ToUpper(status)),
				DepartmentID: department,
			})
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatPlanList(plans))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (NO_START, IN_PROGRESS, COMPLETED)")
	cmd.Flags().StringVar(&department, "department", "", "Filter by department")
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan with its conditions and assignees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			general, err := app.Plans.GeneralPlan(ctx, actor, args[0])
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatGeneralPlan(general))
			return nil
		},
	}
}

func newPlanDetailCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <plan-id>",
		Short: "Show progress counters for every assignee and condition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			detail, err := app.Plans.DetailPlan(ctx, actor, args[0])
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatPlanDetail(detail))
			return nil
		},
	}
}

func newPlanProgressCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "progress <plan-id>",
		Short: "Show one user's progress and activity on a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			if userID == "" {
				userID = actor.ID
			}
			detail, err := app.Plans.GetDetailPlanActivityByUser(ctx, actor, args[0], userID)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatUserPlanDetail(detail))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (default: acting user)")
	return cmd
}

func newPlanMineCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the plans assigned to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			if userID == "" {
				userID = actor.ID
			}
			summaries, err := app.Plans.ListUserPlans(ctx, actor, userID)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatUserPlans(summaries))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (default: acting user)")
	return cmd
}
