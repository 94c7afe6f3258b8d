package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planflow/internal/contract"
	"github.com/alexanderramin/planflow/internal/domain"
)

// FormatPlanList renders plans as a table inside a bordered box.
func FormatPlanList(plans []*domain.Plan) string {
	if len(plans) == 0 {
		return Dim("No plans found.")
	}
	headers := []string{"ID", "NAME", "STATUS", "DATES", "DEPARTMENT"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			PlanStatusPill(p.Status),
			DateRange(p.StartDate, p.CompleteDate),
			orDash(p.DepartmentID),
		})
	}
	return RenderBox("Plans", RenderTable(headers, rows))
}

func planFields(p *domain.Plan) [][2]string {
	return [][2]string{
		{"ID", p.ID},
		{"Status", PlanStatusPill(p.Status)},
		{"Dates", DateRange(p.StartDate, p.CompleteDate)},
		{"Organisation", fmt.Sprintf("%s / %s / %s", orDash(p.DepartmentID), orDash(p.DivisionID), orDash(p.GroupID))},
	}
}

// FormatGeneralPlan renders a plan with its conditions and assignees.
func FormatGeneralPlan(g *contract.GeneralPlan) string {
	var b strings.Builder
	b.WriteString(RenderFields(planFields(g.Plan)))
	if g.Plan.Description != "" {
		b.WriteString("\n" + g.Plan.Description + "\n")
	}

	b.WriteString("\n" + Header("Conditions") + "\n")
	if len(g.Conditions) == 0 {
		b.WriteString(Dim("No conditions.") + "\n")
	} else {
		rows := make([][]string, 0, len(g.Conditions))
		total := 0
		for i, c := range g.Conditions {
			total += c.EstTime
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), c.Name, FormatMinutes(c.EstTime), orDash(c.Overview)})
		}
		b.WriteString(RenderTable([]string{"#", "CONDITION", "EST", "OVERVIEW"}, rows))
		b.WriteString(Dim("Estimated total: "+FormatMinutes(total)) + "\n")
	}

	b.WriteString("\n" + Header("Assignees") + "\n")
	if len(g.Assignees) == 0 {
		b.WriteString(Dim("Nobody assigned.") + "\n")
	} else {
		rows := make([][]string, 0, len(g.Assignees))
		for _, a := range g.Assignees {
			rows = append(rows, []string{orDash(a.Name), TruncID(a.UserID), UserPlanStatusPill(a.Status)})
		}
		b.WriteString(RenderTable([]string{"USER", "ID", "STATUS"}, rows))
	}
	return RenderBox(g.Plan.Name, strings.TrimRight(b.String(), "\n"))
}

// FormatPlanDetail renders the manager progress view of a plan.
func FormatPlanDetail(d *contract.PlanDetail) string {
	var b strings.Builder
	b.WriteString(RenderFields(append(planFields(d.Plan),
		[2]string{"Assigned", fmt.Sprintf("%d", d.TotalUser)},
		[2]string{"Completed", fmt.Sprintf("%d", d.TotalUserComplete)},
		[2]string{"Pending", fmt.Sprintf("%d", d.TotalUserPending)},
		[2]string{"In progress", fmt.Sprintf("%d", d.TotalUserInProgress)},
		[2]string{"Estimate", FormatMinutes(d.EstTimeTotal)},
	)))

	if d.TotalUser > 0 {
		b.WriteString(RenderProgress(float64(d.TotalUserComplete)/float64(d.TotalUser), 20) + "\n")
	}

	b.WriteString("\n" + Header("Conditions") + "\n")
	rows := make([][]string, 0, len(d.Conditions))
	for _, c := range d.Conditions {
		rows = append(rows, []string{c.Condition.Name, FormatMinutes(c.Condition.EstTime), CountsSummary(c.Counts)})
	}
	b.WriteString(RenderTable([]string{"CONDITION", "EST", "PROGRESS"}, rows))

	b.WriteString("\n" + Header("Users") + "\n")
	if len(d.UserPlans) == 0 {
		b.WriteString(Dim("Nobody assigned.") + "\n")
	} else {
		rows = rows[:0]
		for _, up := range d.UserPlans {
			rows = append(rows, []string{
				orDash(up.UserName),
				UserPlanStatusPill(up.UserPlan.Status),
				RenderProgress(CompletionRatio(up.Conditions), 10),
			})
		}
		b.WriteString(RenderTable([]string{"USER", "STATUS", "CONDITIONS"}, rows))
	}
	return RenderBox(d.Plan.Name, strings.TrimRight(b.String(), "\n"))
}

// FormatUserPlanDetail renders one user's progress through a plan with the
// activity history of the plan and each condition.
func FormatUserPlanDetail(d *contract.UserPlanDetail) string {
	var b strings.Builder
	b.WriteString(RenderFields([][2]string{
		{"User", d.User.Name},
		{"User plan", d.UserPlan.ID},
		{"Status", UserPlanStatusPill(d.UserPlan.Status)},
		{"Conditions", CountsSummary(d.Counts)},
	}))
	if len(d.Activities) > 0 {
		b.WriteString("\n" + FormatActivities(d.Activities))
	}

	for _, c := range d.Conditions {
		name := "(removed)"
		if c.Condition != nil {
			name = c.Condition.Name
		}
		b.WriteString("\n" + Header(name) + "\n")
		b.WriteString(RenderFields([][2]string{
			{"ID", c.UserPlanCondition.ID},
			{"Status", ConditionStatusPill(c.UserPlanCondition.Status)},
		}))
		if len(c.Activities) > 0 {
			b.WriteString(FormatActivities(c.Activities))
		}
	}
	return RenderBox(d.Plan.Name, strings.TrimRight(b.String(), "\n"))
}

// FormatUserPlans renders the plans assigned to one user.
func FormatUserPlans(summaries []contract.UserPlanSummary) string {
	if len(summaries) == 0 {
		return Dim("No assigned plans.")
	}
	headers := []string{"PLAN", "USER PLAN", "STATUS", "CONDITIONS", "DUE"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			Bold(s.Plan.Name),
			TruncID(s.UserPlan.ID),
			UserPlanStatusPill(s.UserPlan.Status),
			RenderProgress(CompletionRatio(s.Conditions), 10),
			HumanDate(s.Plan.CompleteDate),
		})
	}
	return RenderBox("My plans", RenderTable(headers, rows))
}
