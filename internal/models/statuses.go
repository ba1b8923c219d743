package models

type ProjectStatus string
type ProjectRole string
type TaskStatus string
type TaskPriority string
type SubscriptionPlan string
type SubscriptionStatus string

const (
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusAtRisk     ProjectStatus = "AT_RISK"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"

	RoleAdmin  ProjectRole = "ADMIN"
	RoleEditor ProjectRole = "EDITOR"
	RoleMember ProjectRole = "MEMBER"

	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"

	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"

	PlanStarter    SubscriptionPlan = "STARTER"
	PlanPro        SubscriptionPlan = "PRO"
	PlanEnterprise SubscriptionPlan = "ENTERPRISE"

	SubscriptionStatusTrial    SubscriptionStatus = "TRIAL"
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusUnpaid   SubscriptionStatus = "UNPAID"
)

// roleRank orders project roles by authority. Unknown roles rank zero,
// below every valid role.
var roleRank = map[ProjectRole]int{
	RoleMember: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// AtLeast reports whether r carries at least the authority of min.
// This is the single place role ordering is defined.
func (r ProjectRole) AtLeast(min ProjectRole) bool {
	return roleRank[r] >= roleRank[min]
}

// Valid reports whether r is a known project role.
func (r ProjectRole) Valid() bool {
	return roleRank[r] > 0
}
