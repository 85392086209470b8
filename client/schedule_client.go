package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/go-resty/resty/v2"
)

const schedulesPath = "/api/v1/schedules"

// APIError is a non-2xx answer from the schedule API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []model.FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("schedule api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("schedule api: %d %s: %s (%s: %s)", e.StatusCode, e.Code, e.Message, e.Details[0].Field, e.Details[0].Message)
}

type envelope[T any] struct {
	Success    bool              `json:"success"`
	Data       T                 `json:"data"`
	Error      *model.APIError   `json:"error"`
	Message    string            `json:"message"`
	Pagination *model.Pagination `json:"pagination"`
}

// SchedulePage is one page of a list call.
type SchedulePage struct {
	Items      []model.Schedule
	Pagination model.Pagination
}

// ListOptions are the list filters. Zero values are left out of the query.
type ListOptions struct {
	Page     int
	Limit    int
	IsActive *bool
	RIC      string
	Day      model.Day
}

func (o ListOptions) params() map[string]string {
	params := map[string]string{}
	if o.Page > 0 {
		params["page"] = strconv.Itoa(o.Page)
	}
	if o.Limit > 0 {
		params["limit"] = strconv.Itoa(o.Limit)
	}
	if o.IsActive != nil {
		params["isActive"] = strconv.FormatBool(*o.IsActive)
	}
	if o.RIC != "" {
		params["ric"] = o.RIC
	}
	if o.Day != "" {
		params["day"] = string(o.Day)
	}
	return params
}

type ScheduleClient struct {
	client *resty.Client
}

func NewScheduleClient(baseURL string) *ScheduleClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeaders(map[string]string{
			"Content-Type":    "application/json",
			"Accept":          "application/json",
			"Accept-Encoding": "br, gzip",
		}).
		OnAfterResponse(DecompressMiddleware)

	return &ScheduleClient{client: c}
}

func (s *ScheduleClient) Create(ctx context.Context, req model.CreateScheduleRequest) (*model.Schedule, error) {
	resp, err := s.client.R().SetContext(ctx).SetBody(req).Post(schedulesPath)
	return decodeSchedule(resp, err)
}

func (s *ScheduleClient) Get(ctx context.Context, id string) (*model.Schedule, error) {
	resp, err := s.client.R().SetContext(ctx).Get(schedulesPath + "/" + id)
	return decodeSchedule(resp, err)
}

func (s *ScheduleClient) List(ctx context.Context, opts ListOptions) (*SchedulePage, error) {
	resp, err := s.client.R().SetContext(ctx).SetQueryParams(opts.params()).Get(schedulesPath)
	env, err := decode[[]model.Schedule](resp, err)
	if err != nil {
		return nil, err
	}

	page := &SchedulePage{Items: env.Data}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// Update replaces a schedule. A zero version skips the version check.
func (s *ScheduleClient) Update(ctx context.Context, id string, req model.UpdateScheduleRequest, version int64) (*model.Schedule, error) {
	resp, err := s.versioned(ctx, version).SetBody(req).Put(schedulesPath + "/" + id)
	return decodeSchedule(resp, err)
}

func (s *ScheduleClient) Patch(ctx context.Context, id string, fields map[string]any, version int64) (*model.Schedule, error) {
	resp, err := s.versioned(ctx, version).SetBody(fields).Patch(schedulesPath + "/" + id)
	return decodeSchedule(resp, err)
}

func (s *ScheduleClient) Toggle(ctx context.Context, id string, version int64) (*model.Schedule, error) {
	resp, err := s.versioned(ctx, version).Post(schedulesPath + "/" + id + "/toggle")
	return decodeSchedule(resp, err)
}

func (s *ScheduleClient) Delete(ctx context.Context, id string) error {
	resp, err := s.client.R().SetContext(ctx).Delete(schedulesPath + "/" + id)
	_, err = decode[json.RawMessage](resp, err)
	return err
}

func (s *ScheduleClient) Stats(ctx context.Context) (*model.ScheduleStats, error) {
	resp, err := s.client.R().SetContext(ctx).Get(schedulesPath + "/stats")
	env, err := decode[model.ScheduleStats](resp, err)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (s *ScheduleClient) versioned(ctx context.Context, version int64) *resty.Request {
	r := s.client.R().SetContext(ctx)
	if version > 0 {
		r.SetHeader("If-Match", strconv.FormatInt(version, 10))
	}
	return r
}

func decodeSchedule(resp *resty.Response, err error) (*model.Schedule, error) {
	env, err := decode[model.Schedule](resp, err)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// decode reads the envelope by hand since brotli bodies are only inflated
// after resty's own result parsing.
func decode[T any](resp *resty.Response, err error) (*envelope[T], error) {
	if err != nil {
		return nil, fmt.Errorf("schedule api request failed: %w", err)
	}

	var env envelope[T]
	if len(resp.Body()) > 0 {
		if jsonErr := json.Unmarshal(resp.Body(), &env); jsonErr != nil {
			if resp.IsError() {
				return nil, &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
			}
			return nil, fmt.Errorf("schedule api: decode response: %w", jsonErr)
		}
	}

	if resp.IsError() || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return nil, apiErr
	}
	return &env, nil
}
