package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/planflow/internal/cli/formatter"
	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Record and review work on user plans and conditions",
	}

	cmd.AddCommand(
		newActivityRecordCmd(app, domain.ActivitySubmitted, "Submit work for review"),
		newActivityRecordCmd(app, domain.ActivityAccepted, "Accept submitted work"),
		newActivityRecordCmd(app, domain.ActivityRejected, "Send submitted work back"),
		newActivityRevokeCmd(app),
		newActivityListCmd(app),
	)

	return cmd
}

var activityVerbs = map[domain.ActivityType]string{
	domain.ActivitySubmitted: "submit",
	domain.ActivityAccepted:  "accept",
	domain.ActivityRejected:  "reject",
}

func newActivityRecordCmd(app *App, typ domain.ActivityType, short string) *cobra.Command {
	var (
		target  targetValue
		comment string
		file    string
	)

	cmd := &cobra.Command{
		Use:   activityVerbs[typ] + " <target-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}

			in := contract.ActivityInput{
				Target:   domain.ActivityTarget(target),
				TargetID: args[0],
				Type:     typ,
				Comment:  comment,
			}
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("opening attachment: %w", err)
				}
				defer f.Close()
				in.Attachment = &contract.Attachment{Name: filepath.Base(file), Body: f}
			}

			act, err := app.Activities.CreateActivity(ctx, actor, in)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Recorded %s on %s %s (#%d)",
				formatter.ActivityColor(act.Type).Render(string(act.Type)), target, args[0], act.Seq)
			if act.FileURL != "" {
				msg += "\nAttachment: " + act.FileURL
			} else if file != "" {
				msg += "\n" + formatter.StyleYellow.Render("Attachment was not stored")
			}
			printLine(cmd, msg)
			return nil
		},
	}

	addTargetFlag(cmd.Flags(), &target)
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Comment")
	if typ == domain.ActivitySubmitted {
		cmd.Flags().StringVar(&file, "file", "", "File to attach (condition activities only)")
	}
	return cmd
}

func newActivityRevokeCmd(app *App) *cobra.Command {
	var (
		target  targetValue
		comment string
	)

	cmd := &cobra.Command{
		Use:   "revoke <activity-id>",
		Short: "Revoke the latest activity on a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			rev, err := app.Activities.UpdateActivity(ctx, actor, contract.ActivityUpdate{
				Target:     domain.ActivityTarget(target),
				ActivityID: args[0],
				Type:       domain.ActivityRevoked,
				Comment:    comment,
			})
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("Revoked %s (#%d on %s)", args[0], rev.Seq, rev.TargetID))
			return nil
		},
	}

	addTargetFlag(cmd.Flags(), &target)
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Reason")
	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var target targetValue

	cmd := &cobra.Command{
		Use:   "list <target-id>",
		Short: "Show the activity log of a user plan or condition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(ctx)
			if err != nil {
				return err
			}
			acts, err := app.Activities.ListActivities(ctx, actor, domain.ActivityTarget(target), args[0])
			if err != nil {
				return err
			}
			title := strings.ReplaceAll(string(target), "_", " ") + " " + args[0]
			printLine(cmd, formatter.Header(title)+"\n"+formatter.FormatActivities(acts))
			return nil
		},
	}

	addTargetFlag(cmd.Flags(), &target)
	return cmd
}
