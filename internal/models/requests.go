package models

import "time"

// Request bodies bound and validated by handlers.

type RegisterRequest struct {
	Name     string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Image *string `json:"image" validate:"omitempty,url"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
}

type ConfirmAccountDeletionRequest struct {
	Token string `json:"token" binding:"required" validate:"required"`
}

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required" validate:"required,min=1,max=120"`
	Description string     `json:"description" validate:"max=2000"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=IN_PROGRESS AT_RISK COMPLETED"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required" validate:"required,oneof=ADMIN EDITOR MEMBER"`
}

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
	Role  string `json:"role" binding:"required" validate:"required,oneof=ADMIN EDITOR MEMBER"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required" validate:"required,min=3,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *string    `json:"assigneeId" validate:"omitempty,uuid"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *string    `json:"assigneeId" validate:"omitempty,uuid"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskStatusRequest is the relaxed status-only update an assignee
// may perform. CompletionNote is accepted only when Status is DONE.
type UpdateTaskStatusRequest struct {
	Status         string  `json:"status" binding:"required" validate:"required,oneof=TODO IN_PROGRESS DONE"`
	CompletionNote *string `json:"completionNote" validate:"omitempty,max=2000"`
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required" validate:"required,min=1,max=4000"`
}

type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required" validate:"required,oneof=PRO ENTERPRISE"`
}
