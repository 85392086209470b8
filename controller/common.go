package controller

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/customerrors"
	"github.com/JRBGitHub/scheadule-desvio/metrics"
	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// NewResponse creates a success response with the given data and message.
func NewResponse(data any, message string) *model.DefaultResponse {
	return &model.DefaultResponse{
		Status: http.StatusOK,
		Body: model.Response{
			Success:   true,
			Message:   message,
			Data:      data,
			Timestamp: model.Timestamp(time.Now()),
		},
	}
}

// NewCreatedResponse is NewResponse with a 201 status.
func NewCreatedResponse(data any, message string) *model.DefaultResponse {
	resp := NewResponse(data, message)
	resp.Status = http.StatusCreated
	return resp
}

// NewPagedResponse carries a page of data with its pagination block.
func NewPagedResponse(data any, page model.Pagination) *model.DefaultResponse {
	resp := NewResponse(data, "")
	resp.Body.Pagination = &page
	return resp
}

// EnvelopeError is the error body every failed request gets. It satisfies
// huma.StatusError so operations can return it directly.
type EnvelopeError struct {
	status    int
	Success   bool            `json:"success"`
	Err       *model.APIError `json:"error"`
	Timestamp string          `json:"timestamp"`
}

func (e *EnvelopeError) Error() string  { return e.Err.Message }
func (e *EnvelopeError) GetStatus() int { return e.status }

// NewErrorResponse builds an envelope error with the given status and code.
func NewErrorResponse(status int, code, message string, details ...model.FieldError) *EnvelopeError {
	return &EnvelopeError{
		status:    status,
		Success:   false,
		Err:       &model.APIError{Code: code, Message: message, Details: details},
		Timestamp: model.Timestamp(time.Now()),
	}
}

// InstallErrorEnvelope makes huma render its own errors (bad path params,
// oversized bodies and the like) in the response envelope.
func InstallErrorEnvelope() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		details := make([]model.FieldError, 0, len(errs))
		for _, err := range errs {
			var detailer huma.ErrorDetailer
			if errors.As(err, &detailer) {
				d := detailer.ErrorDetail()
				details = append(details, model.FieldError{Field: d.Location, Message: d.Message})
			} else if err != nil {
				details = append(details, model.FieldError{Message: err.Error()})
			}
		}
		sort.SliceStable(details, func(i, j int) bool { return details[i].Field < details[j].Field })

		switch status {
		case http.StatusBadRequest:
			return NewErrorResponse(status, model.CodeBadRequest, msg, details...)
		case http.StatusNotFound:
			return NewErrorResponse(status, model.CodeNotFound, msg)
		case http.StatusConflict, http.StatusPreconditionFailed:
			return NewErrorResponse(status, model.CodeVersionConflict, msg)
		case http.StatusUnprocessableEntity:
			return NewErrorResponse(status, model.CodeValidationError, model.ValidationErrorMessage, details...)
		case http.StatusTooManyRequests:
			return NewErrorResponse(status, model.CodeTooManyRequests, msg)
		}
		if status >= http.StatusInternalServerError {
			log.Error().Int("status", status).Str("detail", msg).Msg("framework error")
			return NewErrorResponse(http.StatusInternalServerError, model.CodeInternalServerError, model.InternalErrorMessage)
		}
		return NewErrorResponse(status, model.CodeBadRequest, msg, details...)
	}
}

// toHTTPError maps a service error onto the envelope. Query validation
// failures become 400, body validation failures 422.
func toHTTPError(err error, operation string, queryInput bool) error {
	var verr *customerrors.ValidationError
	switch {
	case errors.As(err, &verr):
		for _, d := range verr.Details {
			metrics.ObserveValidationFailure(d.Field)
		}
		if queryInput {
			return NewErrorResponse(http.StatusBadRequest, model.CodeBadRequest, model.BadRequestMessage, verr.Details...)
		}
		return NewErrorResponse(http.StatusUnprocessableEntity, model.CodeValidationError, verr.Message, verr.Details...)
	case errors.Is(err, customerrors.ErrScheduleNotFound):
		return NewErrorResponse(http.StatusNotFound, model.CodeNotFound, "Schedule no encontrado")
	case errors.Is(err, customerrors.ErrInstrumentNotFound):
		return NewErrorResponse(http.StatusNotFound, model.CodeNotFound, "Instrumento no encontrado")
	case errors.Is(err, customerrors.ErrVersionConflict):
		return NewErrorResponse(http.StatusConflict, model.CodeVersionConflict, "El schedule fue modificado por otra solicitud")
	default:
		log.Error().Err(err).Str("operation", operation).Msg("request failed")
		return NewErrorResponse(http.StatusInternalServerError, model.CodeInternalServerError, model.InternalErrorMessage)
	}
}
