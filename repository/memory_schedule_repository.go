package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/JRBGitHub/scheadule-desvio/customerrors"
	"github.com/JRBGitHub/scheadule-desvio/model"
)

type MemoryScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[string]model.Schedule
}

func NewMemoryScheduleRepository() *MemoryScheduleRepository {
	return &MemoryScheduleRepository{
		schedules: make(map[string]model.Schedule),
	}
}

func (r *MemoryScheduleRepository) Name() string { return model.StoreMemory }

func (r *MemoryScheduleRepository) Ping(ctx context.Context) error { return ctx.Err() }

func (r *MemoryScheduleRepository) Insert(ctx context.Context, schedule model.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schedules[schedule.ID]; exists {
		return customerrors.ErrScheduleAlreadyExists
	}
	r.schedules[schedule.ID] = clone(schedule)
	return nil
}

func (r *MemoryScheduleRepository) FindByID(ctx context.Context, id string) (*model.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.schedules[id]
	if !ok {
		return nil, customerrors.ErrScheduleNotFound
	}
	out := clone(schedule)
	return &out, nil
}

func (r *MemoryScheduleRepository) List(ctx context.Context, filter model.ScheduleFilter, page model.PageRequest) ([]model.Schedule, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	matched := make([]model.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		if filter.Matches(s) {
			matched = append(matched, clone(s))
		}
	}
	r.mu.RUnlock()

	sortSchedules(matched)
	total := int64(len(matched))

	start := page.Offset()
	if start < 0 || start >= len(matched) {
		return []model.Schedule{}, total, nil
	}
	end := len(matched)
	if page.Limit > 0 && page.Limit < end-start {
		end = start + page.Limit
	}
	return matched[start:end], total, nil
}

func (r *MemoryScheduleRepository) Update(ctx context.Context, schedule model.Schedule, expectedVersion int64) (*model.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.schedules[schedule.ID]
	if !ok {
		return nil, customerrors.ErrScheduleNotFound
	}
	if stored.Version != expectedVersion {
		return nil, customerrors.ErrVersionConflict
	}

	schedule.Version = expectedVersion + 1
	r.schedules[schedule.ID] = clone(schedule)
	out := clone(schedule)
	return &out, nil
}

func (r *MemoryScheduleRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[id]; !ok {
		return customerrors.ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r *MemoryScheduleRepository) All(ctx context.Context) ([]model.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]model.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, clone(s))
	}
	r.mu.RUnlock()

	sortSchedules(out)
	return out, nil
}

func sortSchedules(schedules []model.Schedule) {
	sort.Slice(schedules, func(i, j int) bool {
		if !schedules[i].CreatedAt.Equal(schedules[j].CreatedAt) {
			return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
		}
		return schedules[i].ID < schedules[j].ID
	})
}

// clone detaches the optional timestamps so callers never share them with
// the store.
func clone(s model.Schedule) model.Schedule {
	if s.LastExecuted != nil {
		t := *s.LastExecuted
		s.LastExecuted = &t
	}
	if s.NextExecution != nil {
		t := *s.NextExecution
		s.NextExecution = &t
	}
	return s
}
