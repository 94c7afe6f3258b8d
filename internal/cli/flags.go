package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/spf13/pflag"
)

// roleValue is a --role flag that only accepts known roles.
type roleValue domain.Role

var _ pflag.Value = (*roleValue)(nil)

func (r *roleValue) String() string { return string(*r) }
func (r *roleValue) Type() string   { return "role" }

func (r *roleValue) Set(s string) error {
	role, err := domain.ParseRole(strings.ToUpper(s))
	if err != nil {
		return err
	}
	*r = roleValue(role)
	return nil
}

// targetValue selects which activity log a command works on.
type targetValue domain.ActivityTarget

var _ pflag.Value = (*targetValue)(nil)

func (t *targetValue) String() string { return string(*t) }
func (t *targetValue) Type() string   { return "target" }

func (t *targetValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "plan", "user_plan", "userplan":
		*t = targetValue(domain.TargetUserPlan)
	case "condition", "cond":
		*t = targetValue(domain.TargetCondition)
	default:
		return fmt.Errorf("unknown target %q (want plan or condition)", s)
	}
	return nil
}

func addTargetFlag(fs *pflag.FlagSet, t *targetValue) {
	*t = targetValue(domain.TargetCondition)
	fs.VarP(t, "on", "o", `activity log: "plan" (user plan) or "condition"`)
}
