package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/JRBGitHub/scheadule-desvio/model"
	"github.com/JRBGitHub/scheadule-desvio/service"
	"github.com/JRBGitHub/scheadule-desvio/validator"

	"github.com/danielgtaylor/huma/v2"
)

const (
	msgCreated = "Schedule creado exitosamente"
	msgUpdated = "Schedule actualizado exitosamente"
	msgToggled = "Estado del schedule actualizado"
	msgDeleted = "Schedule eliminado exitosamente"
)

type ListSchedulesInput struct {
	Page     string `query:"page" doc:"Page number, starting at 1" example:"1"`
	Limit    string `query:"limit" doc:"Page size between 1 and 100" example:"10"`
	IsActive string `query:"isActive" doc:"Filter by active flag (true or false)"`
	RIC      string `query:"ric" doc:"Filter by instrument RIC" example:"AAPL.O"`
	Day      string `query:"day" doc:"Filter by weekday" example:"Lunes"`
}

// SchedulePayloadInput takes the body raw so every field error can be
// reported in the envelope.
type SchedulePayloadInput struct {
	RawBody []byte
}

type ScheduleIDInput struct {
	ID string `path:"id" doc:"Schedule id"`
}

type ScheduleVersionedInput struct {
	ID      string `path:"id" doc:"Schedule id"`
	IfMatch string `header:"If-Match" doc:"Expected schedule version; omitted means last write wins"`
}

type ScheduleWriteInput struct {
	ID      string `path:"id" doc:"Schedule id"`
	IfMatch string `header:"If-Match" doc:"Expected schedule version; omitted means last write wins"`
	RawBody []byte
}

type ScheduleController struct {
	scheduleSvc service.ScheduleService
}

func NewScheduleController(s service.ScheduleService) *ScheduleController {
	return &ScheduleController{scheduleSvc: s}
}

func (ctrl *ScheduleController) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-schedules",
		Method:      http.MethodGet,
		Path:        "/api/v1/schedules",
		Summary:     "List Schedules",
		Description: "Lists schedules filtered by isActive, ric and day, one page at a time",
		Tags:        []string{"Schedules"},
	}, ctrl.ListSchedules)

	huma.Register(api, huma.Operation{
		OperationID:   "create-schedule",
		Method:        http.MethodPost,
		Path:          "/api/v1/schedules",
		Summary:       "Create Schedule",
		Description:   "Validates the payload and stores a new active schedule",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Schedules"},
	}, ctrl.CreateSchedule)

	huma.Register(api, huma.Operation{
		OperationID: "schedule-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/schedules/stats",
		Summary:     "Schedule Statistics",
		Description: "Counts schedules by state, weekday and frequency",
		Tags:        []string{"Schedules"},
	}, ctrl.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "get-schedule",
		Method:      http.MethodGet,
		Path:        "/api/v1/schedules/{id}",
		Summary:     "Get Schedule",
		Tags:        []string{"Schedules"},
	}, ctrl.GetSchedule)

	huma.Register(api, huma.Operation{
		OperationID: "update-schedule",
		Method:      http.MethodPut,
		Path:        "/api/v1/schedules/{id}",
		Summary:     "Replace Schedule",
		Description: "Replaces every editable field, isActive included",
		Tags:        []string{"Schedules"},
	}, ctrl.UpdateSchedule)

	huma.Register(api, huma.Operation{
		OperationID: "patch-schedule",
		Method:      http.MethodPatch,
		Path:        "/api/v1/schedules/{id}",
		Summary:     "Patch Schedule",
		Description: "Changes only the given fields; id, createdAt and version are ignored",
		Tags:        []string{"Schedules"},
	}, ctrl.PatchSchedule)

	huma.Register(api, huma.Operation{
		OperationID: "toggle-schedule",
		Method:      http.MethodPost,
		Path:        "/api/v1/schedules/{id}/toggle",
		Summary:     "Toggle Schedule",
		Description: "Flips the active flag",
		Tags:        []string{"Schedules"},
	}, ctrl.ToggleSchedule)

	huma.Register(api, huma.Operation{
		OperationID: "delete-schedule",
		Method:      http.MethodDelete,
		Path:        "/api/v1/schedules/{id}",
		Summary:     "Delete Schedule",
		Tags:        []string{"Schedules"},
	}, ctrl.DeleteSchedule)
}

func (ctrl *ScheduleController) ListSchedules(ctx context.Context, input *ListSchedulesInput) (*model.DefaultResponse, error) {
	query, err := validator.ValidateListQuery(map[string]string{
		"page":     input.Page,
		"limit":    input.Limit,
		"isActive": input.IsActive,
		"ric":      input.RIC,
		"day":      input.Day,
	})
	if err != nil {
		return nil, toHTTPError(err, "list", true)
	}

	schedules, page, err := ctrl.scheduleSvc.ListSchedules(ctx, query)
	if err != nil {
		return nil, toHTTPError(err, "list", false)
	}
	return NewPagedResponse(schedules, page), nil
}

func (ctrl *ScheduleController) CreateSchedule(ctx context.Context, input *SchedulePayloadInput) (*model.DefaultResponse, error) {
	payload, err := validator.DecodePayload(input.RawBody)
	if err != nil {
		return nil, toHTTPError(err, "create", false)
	}
	req, err := validator.ValidateCreate(payload)
	if err != nil {
		return nil, toHTTPError(err, "create", false)
	}

	schedule, err := ctrl.scheduleSvc.CreateSchedule(ctx, req)
	if err != nil {
		return nil, toHTTPError(err, "create", false)
	}
	return NewCreatedResponse(schedule, msgCreated), nil
}

func (ctrl *ScheduleController) GetStats(ctx context.Context, _ *struct{}) (*model.DefaultResponse, error) {
	stats, err := ctrl.scheduleSvc.GetStats(ctx)
	if err != nil {
		return nil, toHTTPError(err, "stats", false)
	}
	return NewResponse(stats, ""), nil
}

func (ctrl *ScheduleController) GetSchedule(ctx context.Context, input *ScheduleIDInput) (*model.DefaultResponse, error) {
	schedule, err := ctrl.scheduleSvc.GetSchedule(ctx, input.ID)
	if err != nil {
		return nil, toHTTPError(err, "get", false)
	}
	return NewResponse(schedule, ""), nil
}

func (ctrl *ScheduleController) UpdateSchedule(ctx context.Context, input *ScheduleWriteInput) (*model.DefaultResponse, error) {
	version, err := parseIfMatch(input.IfMatch)
	if err != nil {
		return nil, err
	}
	payload, err := validator.DecodePayload(input.RawBody)
	if err != nil {
		return nil, toHTTPError(err, "update", false)
	}
	req, err := validator.ValidateUpdate(payload)
	if err != nil {
		return nil, toHTTPError(err, "update", false)
	}

	schedule, err := ctrl.scheduleSvc.UpdateSchedule(ctx, input.ID, req, version)
	if err != nil {
		return nil, toHTTPError(err, "update", false)
	}
	return NewResponse(schedule, msgUpdated), nil
}

func (ctrl *ScheduleController) PatchSchedule(ctx context.Context, input *ScheduleWriteInput) (*model.DefaultResponse, error) {
	version, err := parseIfMatch(input.IfMatch)
	if err != nil {
		return nil, err
	}
	payload, err := validator.DecodePayload(input.RawBody)
	if err != nil {
		return nil, toHTTPError(err, "patch", false)
	}

	schedule, err := ctrl.scheduleSvc.PatchSchedule(ctx, input.ID, payload, version)
	if err != nil {
		return nil, toHTTPError(err, "patch", false)
	}
	return NewResponse(schedule, msgUpdated), nil
}

func (ctrl *ScheduleController) ToggleSchedule(ctx context.Context, input *ScheduleVersionedInput) (*model.DefaultResponse, error) {
	version, err := parseIfMatch(input.IfMatch)
	if err != nil {
		return nil, err
	}

	schedule, err := ctrl.scheduleSvc.ToggleActive(ctx, input.ID, version)
	if err != nil {
		return nil, toHTTPError(err, "toggle", false)
	}
	return NewResponse(schedule, msgToggled), nil
}

func (ctrl *ScheduleController) DeleteSchedule(ctx context.Context, input *ScheduleIDInput) (*model.DefaultResponse, error) {
	if err := ctrl.scheduleSvc.DeleteSchedule(ctx, input.ID); err != nil {
		return nil, toHTTPError(err, "delete", false)
	}
	return NewResponse(nil, msgDeleted), nil
}

// parseIfMatch reads the expected version. Quotes are tolerated so ETag
// style values work; an empty header means no version check.
func parseIfMatch(raw string) (int64, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return 0, nil
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 1 {
		return 0, NewErrorResponse(http.StatusBadRequest, model.CodeBadRequest, model.BadRequestMessage,
			model.FieldError{Field: "If-Match", Message: "If-Match debe ser una versión entera positiva"})
	}
	return version, nil
}
