package dialogue

import "fmt"

type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewCollaboratorError(msg string, err error) error {
	return &FlowError{
		Code:    "collaboratorError",
		Message: fmt.Sprintf("%s: %v", msg, err),
	}
}
