package cli

import (
	"fmt"

	"github.com/alexanderramin/planflow/internal/cli/formatter"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/spf13/cobra"
)

// DefaultTenant is used when neither --tenant nor --as names one.
const DefaultTenant = "default"

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
	)
	return cmd
}

// tenantFor picks the explicit tenant, else the acting user's, else the default.
func tenantFor(cmd *cobra.Command, app *App, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if app.actorID == "" {
		return DefaultTenant, nil
	}
	actor, err := app.actor(cmd.Context())
	if err != nil {
		return "", err
	}
	return actor.TenantID, nil
}

func newUserAddCmd(app *App) *cobra.Command {
	var (
		id, name, email, tenant     string
		department, division, group string
		role                        = roleValue(domain.RoleMember)
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := tenantFor(cmd, app, tenant)
			if err != nil {
				return err
			}
			u := &domain.User{
				ID:           id,
				TenantID:     tenantID,
				Name:         name,
				Email:        email,
				Role:         domain.Role(role),
				DepartmentID: department,
				DivisionID:   division,
				GroupID:      group,
			}
			if err := app.Users.Create(cmd.Context(), u); err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("Created user %s %s (%s)", formatter.Bold(u.Name), formatter.Dim(u.ID), u.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User ID (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().Var(&role, "role", "ADMIN, MANAGER, LEADER or MEMBER")
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID (default: acting user's tenant)")
	cmd.Flags().StringVar(&department, "department", "", "Department ID")
	cmd.Flags().StringVar(&division, "division", "", "Division ID")
	cmd.Flags().StringVar(&group, "group", "", "Group ID")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	var tenant string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users of a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := tenantFor(cmd, app, tenant)
			if err != nil {
				return err
			}
			users, err := app.Users.List(cmd.Context(), tenantID)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatUserList(users))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID (default: acting user's tenant)")
	return cmd
}
