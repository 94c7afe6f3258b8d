package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_IsMember(t *testing.T) {
	assert.True(t, RoleMember.IsMember())
	for _, r := range []Role{RoleAdmin, RoleManager, RoleLeader} {
		assert.False(t, r.IsMember(), "role=%s", r)
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("LEADER")
	require.NoError(t, err)
	assert.Equal(t, RoleLeader, r)

	_, err = ParseRole("leader")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseActivityType(t *testing.T) {
	for _, s := range []string{"ACCEPTED", "SUBMITTED", "REJECTED", "REVOKED"} {
		got, err := ParseActivityType(s)
		require.NoError(t, err)
		assert.Equal(t, ActivityType(s), got)
	}
	_, err := ParseActivityType("APPROVED")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProgressMapping_RoundTrips(t *testing.T) {
	for _, p := range []Progress{ProgressOpen, ProgressPending, ProgressCompleted} {
		assert.Equal(t, p, UserPlanStatusFor(p).Progress())
		assert.Equal(t, p, ConditionStatusFor(p).Progress())
	}
	assert.Equal(t, UserPlanInProgress, UserPlanStatusFor(ProgressOpen))
	assert.Equal(t, ConditionInComplete, ConditionStatusFor(ProgressOpen))
	assert.Equal(t, ConditionPendingApproval, ConditionStatusFor(ProgressPending))
}

func TestUntouched(t *testing.T) {
	up := &UserPlan{Status: UserPlanInProgress}
	conds := []*UserPlanCondition{{Status: ConditionInComplete}, {Status: ConditionInComplete}}
	assert.True(t, Untouched(up, conds))

	conds[1].Status = ConditionPendingApproval
	assert.False(t, Untouched(up, conds))

	conds[1].Status = ConditionInComplete
	up.Status = UserPlanPendingApproval
	assert.False(t, Untouched(up, conds))
}
