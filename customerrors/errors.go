package customerrors

import (
	"errors"
	"fmt"

	"github.com/JRBGitHub/scheadule-desvio/model"
)

var (
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrScheduleAlreadyExists = errors.New("a schedule with this id already exists")
	ErrVersionConflict       = errors.New("schedule was modified by another request")
	ErrInstrumentNotFound    = errors.New("instrument not found")
)

// ValidationError carries every failing field of a rejected payload.
type ValidationError struct {
	Message string
	Details []model.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %d invalid field(s), first %s: %s", e.Message, len(e.Details), e.Details[0].Field, e.Details[0].Message)
}

// Fields returns the failing field names in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return fields
}

func NewValidationError(details []model.FieldError) *ValidationError {
	return &ValidationError{Message: model.ValidationErrorMessage, Details: details}
}
