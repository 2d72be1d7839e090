package service

import "github.com/phrazzld/task-tracker-api/internal/domain"

// Messages attached to whole-input validation failures.
const (
	MsgAllFieldsRequired           = "All fields are required"
	MsgEmailAndPasswordRequired    = "Email and password are required"
	MsgProvideUsernameOrEmail      = "Provide username or email"
	MsgTitleAndDescriptionRequired = "Title and description are required"
)

func requiredError(message string) error {
	return domain.NewValidationError("", message)
}
