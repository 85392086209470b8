package repository

import (
	"context"

	"github.com/JRBGitHub/scheadule-desvio/model"
)

// ScheduleRepository is the schedule store. Implementations serialize writes
// per schedule and enforce the version check on Update.
type ScheduleRepository interface {
	Insert(ctx context.Context, schedule model.Schedule) error
	FindByID(ctx context.Context, id string) (*model.Schedule, error)
	// List returns one page of matching schedules ordered by createdAt then
	// id, plus the total number of matches.
	List(ctx context.Context, filter model.ScheduleFilter, page model.PageRequest) ([]model.Schedule, int64, error)
	// Update replaces the stored schedule if its version equals
	// expectedVersion. The stored copy gets version expectedVersion+1.
	Update(ctx context.Context, schedule model.Schedule, expectedVersion int64) (*model.Schedule, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]model.Schedule, error)
	Ping(ctx context.Context) error
	Name() string
}
