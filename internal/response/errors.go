package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionRevoked     ErrCode = "SESSION_REVOKED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// Authorization
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly  ErrCode = "STUDENT_ACCESS_ONLY"
	ErrInstructorAccessOnly ErrCode = "INSTRUCTOR_ACCESS_ONLY"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// Files
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// Rate limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Username or password is incorrect."
	case ErrSessionRevoked:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrForbidden:
		return "You do not have permission to perform this action."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrInstructorAccessOnly:
		return "This resource is restricted to instructors."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrDependencyExists:
		return "The resource cannot be deleted because it is still in use."
	case ErrFileRequired:
		return "A file upload is required."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
