package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/cache"
	"github.com/JRBGitHub/scheadule-desvio/customerrors"
	"github.com/JRBGitHub/scheadule-desvio/metrics"
	"github.com/JRBGitHub/scheadule-desvio/model"
	"github.com/JRBGitHub/scheadule-desvio/repository"
	"github.com/JRBGitHub/scheadule-desvio/util"
	"github.com/JRBGitHub/scheadule-desvio/validator"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// maxWriteAttempts bounds the retries of an unversioned write that keeps
// losing the race against other writers.
const maxWriteAttempts = 3

type ScheduleService interface {
	CreateSchedule(ctx context.Context, req model.CreateScheduleRequest) (*model.Schedule, error)
	GetSchedule(ctx context.Context, id string) (*model.Schedule, error)
	ListSchedules(ctx context.Context, query model.ListScheduleQuery) ([]model.Schedule, model.Pagination, error)
	// The mutating calls take the version the caller last saw. Zero means
	// "whatever is stored now" and makes the write last-write-wins.
	UpdateSchedule(ctx context.Context, id string, req model.UpdateScheduleRequest, expectedVersion int64) (*model.Schedule, error)
	PatchSchedule(ctx context.Context, id string, payload map[string]any, expectedVersion int64) (*model.Schedule, error)
	ToggleActive(ctx context.Context, id string, expectedVersion int64) (*model.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	GetStats(ctx context.Context) (model.ScheduleStats, error)
}

type ScheduleServiceImpl struct {
	repo  repository.ScheduleRepository
	stats *cache.StatsCache
	loc   *time.Location
	now   func() time.Time
	newID func() string
}

type ScheduleOption func(*ScheduleServiceImpl)

func WithClock(now func() time.Time) ScheduleOption {
	return func(s *ScheduleServiceImpl) { s.now = now }
}

func WithIDGenerator(newID func() string) ScheduleOption {
	return func(s *ScheduleServiceImpl) { s.newID = newID }
}

func WithLocation(loc *time.Location) ScheduleOption {
	return func(s *ScheduleServiceImpl) { s.loc = loc }
}

func NewScheduleService(repo repository.ScheduleRepository, stats *cache.StatsCache, opts ...ScheduleOption) *ScheduleServiceImpl {
	s := &ScheduleServiceImpl{
		repo:  repo,
		stats: stats,
		loc:   time.UTC,
		now:   time.Now,
		newID: util.NewScheduleID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stats == nil {
		s.stats = cache.NewStatsCache(nil, 30*time.Second)
	}
	return s
}

func (s *ScheduleServiceImpl) CreateSchedule(ctx context.Context, req model.CreateScheduleRequest) (*model.Schedule, error) {
	schedule := model.NewSchedule(s.newID(), req, s.now().UTC())
	s.planNext(&schedule)

	if err := s.repo.Insert(ctx, schedule); err != nil {
		s.observe("create", err)
		return nil, fmt.Errorf("insert schedule: %w", err)
	}

	s.stats.Invalidate(ctx)
	s.observe("create", nil)
	log.Debug().Str("id", schedule.ID).Str("ric", schedule.RIC).Msg("schedule created")
	return &schedule, nil
}

func (s *ScheduleServiceImpl) GetSchedule(ctx context.Context, id string) (*model.Schedule, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ScheduleServiceImpl) ListSchedules(ctx context.Context, query model.ListScheduleQuery) ([]model.Schedule, model.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, query.Filter(), query.PageRequest())
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, model.NewPagination(query.Page, query.Limit, total), nil
}

func (s *ScheduleServiceImpl) UpdateSchedule(ctx context.Context, id string, req model.UpdateScheduleRequest, expectedVersion int64) (*model.Schedule, error) {
	return s.mutate(ctx, "update", id, expectedVersion, func(schedule *model.Schedule) error {
		if err := applyRequest(schedule, req.CreateScheduleRequest); err != nil {
			return err
		}
		schedule.IsActive = req.IsActive
		return nil
	})
}

func (s *ScheduleServiceImpl) PatchSchedule(ctx context.Context, id string, payload map[string]any, expectedVersion int64) (*model.Schedule, error) {
	return s.mutate(ctx, "patch", id, expectedVersion, func(schedule *model.Schedule) error {
		req, isActive, err := validator.ValidatePatch(*schedule, payload)
		if err != nil {
			return err
		}
		if err := applyRequest(schedule, req); err != nil {
			return err
		}
		if isActive != nil {
			schedule.IsActive = *isActive
		}
		return nil
	})
}

func (s *ScheduleServiceImpl) ToggleActive(ctx context.Context, id string, expectedVersion int64) (*model.Schedule, error) {
	return s.mutate(ctx, "toggle", id, expectedVersion, func(schedule *model.Schedule) error {
		schedule.IsActive = !schedule.IsActive
		return nil
	})
}

func (s *ScheduleServiceImpl) DeleteSchedule(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	s.observe("delete", err)
	if err != nil {
		return err
	}
	s.stats.Invalidate(ctx)
	log.Debug().Str("id", id).Msg("schedule deleted")
	return nil
}

func (s *ScheduleServiceImpl) GetStats(ctx context.Context) (model.ScheduleStats, error) {
	if stats, found := s.stats.Get(ctx); found {
		return stats, nil
	}

	schedules, err := s.repo.All(ctx)
	if err != nil {
		return model.ScheduleStats{}, fmt.Errorf("load schedules for stats: %w", err)
	}

	stats := model.NewScheduleStats()
	instruments := make(map[string]struct{})
	for _, schedule := range schedules {
		stats.Add(schedule)
		instruments[schedule.RIC] = struct{}{}
	}
	stats.UniqueInstruments = len(instruments)

	s.stats.Set(ctx, stats)
	return stats, nil
}

// mutate loads the schedule, applies change and writes it back guarded by
// the version check. Unversioned writes retry on conflict.
func (s *ScheduleServiceImpl) mutate(ctx context.Context, op, id string, expectedVersion int64, change func(*model.Schedule) error) (*model.Schedule, error) {
	attempts := 1
	if expectedVersion == 0 {
		attempts = maxWriteAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			s.observe(op, err)
			return nil, err
		}

		version := expectedVersion
		if version == 0 {
			version = current.Version
		} else if current.Version != version {
			s.observe(op, customerrors.ErrVersionConflict)
			return nil, customerrors.ErrVersionConflict
		}

		next := *current
		if err := change(&next); err != nil {
			s.observe(op, err)
			return nil, err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = s.stamp(current.CreatedAt)
		s.planNext(&next)

		updated, err := s.repo.Update(ctx, next, version)
		if err == nil {
			s.stats.Invalidate(ctx)
			s.observe(op, nil)
			log.Debug().Str("id", id).Str("op", op).Int64("version", updated.Version).Msg("schedule updated")
			return updated, nil
		}
		lastErr = err
		if !errors.Is(err, customerrors.ErrVersionConflict) {
			break
		}
	}

	s.observe(op, lastErr)
	if !errors.Is(lastErr, customerrors.ErrVersionConflict) && !errors.Is(lastErr, customerrors.ErrScheduleNotFound) {
		log.Error().Err(lastErr).Str("id", id).Str("op", op).Msg("schedule write failed")
	}
	return nil, lastErr
}

// stamp returns the update time, never earlier than createdAt.
func (s *ScheduleServiceImpl) stamp(createdAt time.Time) time.Time {
	now := s.now().UTC()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

func (s *ScheduleServiceImpl) planNext(schedule *model.Schedule) {
	if !schedule.IsActive {
		schedule.NextExecution = nil
		return
	}
	next, err := util.NextExecution(schedule.Day, schedule.Time, schedule.IterationTime, s.now(), s.loc)
	if err != nil {
		log.Warn().Err(err).Str("id", schedule.ID).Msg("could not compute next execution")
		schedule.NextExecution = nil
		return
	}
	next = next.UTC()
	schedule.NextExecution = &next
}

func (s *ScheduleServiceImpl) observe(op string, err error) {
	var verr *customerrors.ValidationError
	switch {
	case err == nil:
		metrics.ObserveOperation(op, metrics.ResultSuccess)
	case errors.As(err, &verr):
		metrics.ObserveOperation(op, metrics.ResultInvalid)
	case errors.Is(err, customerrors.ErrScheduleNotFound):
		metrics.ObserveOperation(op, metrics.ResultNotFound)
	case errors.Is(err, customerrors.ErrVersionConflict):
		metrics.ObserveOperation(op, metrics.ResultConflict)
	default:
		metrics.ObserveOperation(op, metrics.ResultError)
	}
}

// applyRequest overwrites the editable fields of schedule with req.
func applyRequest(schedule *model.Schedule, req model.CreateScheduleRequest) error {
	if err := copier.Copy(schedule, &req); err != nil {
		return fmt.Errorf("copy request: %w", err)
	}
	inst, schemaVersion := req.ResolveInstrument()
	schedule.Instrument = inst
	schedule.RIC = inst.RIC
	schedule.SchemaVersion = schemaVersion
	return nil
}
