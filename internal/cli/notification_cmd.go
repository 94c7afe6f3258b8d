package cli

import (
	"github.com/alexanderramin/planflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newNotificationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"inbox"},
		Short:   "Read your notifications",
	}
	cmd.AddCommand(
		newNotificationListCmd(app),
		newNotificationReadCmd(app),
	)
	return cmd
}

func newNotificationListCmd(app *App) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			notes, err := app.Notifications.List(ctx, actor, unread)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatNotifications(notes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")
	return cmd
}

func newNotificationReadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>...",
		Short: "Mark notifications read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := app.Notifications.MarkRead(ctx, actor, id); err != nil {
					return err
				}
			}
			printLine(cmd, formatter.Dim("Marked read."))
			return nil
		},
	}
}
