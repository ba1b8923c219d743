package validator

import (
	"log"

	"nudge_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the application's enum rules. A rule
// that fails to register is a startup error.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-project-role", validateProjectRole)
	mustRegister("is-project-status", validateProjectStatus)
	mustRegister("is-task-status", validateTaskStatus)
	mustRegister("is-task-priority", validateTaskPriority)
	mustRegister("is-paid-plan", validatePaidPlan)
}

func validateProjectRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	return models.ProjectRole(value).Valid()
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ProjectStatus(value) {
	case models.ProjectStatusInProgress, models.ProjectStatusAtRisk, models.ProjectStatusCompleted:
		return true
	default:
		return false
	}
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.TaskStatus(value) {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
		return true
	default:
		return false
	}
}

func validateTaskPriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.TaskPriority(value) {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// validatePaidPlan accepts only plans that can be checked out; STARTER
// is the free tier and never goes through the payment gateway.
func validatePaidPlan(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.SubscriptionPlan(value) {
	case models.PlanPro, models.PlanEnterprise:
		return true
	default:
		return false
	}
}
