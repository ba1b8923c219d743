package apperrors

// Error codes returned to API clients. Stable strings, do not rename.
const (
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeEmailAlreadyInUse ErrorCode = "EMAIL_ALREADY_IN_USE"
	CodeWeakPassword      ErrorCode = "WEAK_PASSWORD"

	CodeProjectNotFound    ErrorCode = "PROJECT_NOT_FOUND"
	CodeTaskNotFound       ErrorCode = "TASK_NOT_FOUND"
	CodeFileNotFound       ErrorCode = "FILE_NOT_FOUND"
	CodeMemberNotFound     ErrorCode = "MEMBER_NOT_FOUND"
	CodeInvitationNotFound ErrorCode = "INVITATION_NOT_FOUND"

	CodeAlreadyInvited     ErrorCode = "ALREADY_INVITED"
	CodeAlreadyMember      ErrorCode = "ALREADY_MEMBER"
	CodeInvitationExpired  ErrorCode = "INVITATION_EXPIRED"
	CodeAssigneeNotMember  ErrorCode = "ASSIGNEE_NOT_MEMBER"
	CodeCompletionNoteOnly ErrorCode = "COMPLETION_NOTE_REQUIRES_DONE"

	CodeProjectLimitReached ErrorCode = "PROJECT_LIMIT_REACHED"
	CodeMemberLimitReached  ErrorCode = "MEMBER_LIMIT_REACHED"
	CodeStorageLimitReached ErrorCode = "STORAGE_LIMIT_REACHED"

	CodeSubscriptionNotFound ErrorCode = "SUBSCRIPTION_NOT_FOUND"
	CodeBillingGateway       ErrorCode = "BILLING_GATEWAY_ERROR"
	CodeWebhookSignature     ErrorCode = "WEBHOOK_SIGNATURE_INVALID"

	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)
