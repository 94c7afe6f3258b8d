package repository

import "github.com/alexanderramin/planflow/internal/db"

// Set groups every repository over one connection. Services build a Set
// from the transaction handed to them by UnitOfWork.WithinTx.
type Set struct {
	Users              UserRepo
	Plans              PlanRepo
	Conditions         PlanConditionRepo
	UserPlans          UserPlanRepo
	UserPlanConditions UserPlanConditionRepo
	Activities         ActivityRepo
	Notifications      NotificationRepo
}

func NewSet(conn db.DBTX) *Set {
	return &Set{
		Users:              NewSQLUserRepo(conn),
		Plans:              NewSQLPlanRepo(conn),
		Conditions:         NewSQLPlanConditionRepo(conn),
		UserPlans:          NewSQLUserPlanRepo(conn),
		UserPlanConditions: NewSQLUserPlanConditionRepo(conn),
		Activities:         NewSQLActivityRepo(conn),
		Notifications:      NewSQLNotificationRepo(conn),
	}
}
