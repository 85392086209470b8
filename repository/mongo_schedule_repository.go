package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/JRBGitHub/scheadule-desvio/customerrors"
	"github.com/JRBGitHub/scheadule-desvio/database"
	"github.com/JRBGitHub/scheadule-desvio/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoScheduleRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoScheduleRepository(db *mongo.Database) *MongoScheduleRepository {
	return &MongoScheduleRepository{
		client:     db.Client(),
		collection: db.Collection(model.ScheduleCollectionName),
	}
}

func (r *MongoScheduleRepository) Name() string { return model.StoreMongo }

func (r *MongoScheduleRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes backing the list filters.
func (r *MongoScheduleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "day", Value: 1}}},
		{Keys: bson.D{{Key: "ric", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create schedule indexes: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepository) Insert(ctx context.Context, schedule model.Schedule) error {
	_, err := r.collection.InsertOne(ctx, schedule)
	if mongo.IsDuplicateKeyError(err) {
		return customerrors.ErrScheduleAlreadyExists
	}
	return err
}

func (r *MongoScheduleRepository) FindByID(ctx context.Context, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, customerrors.ErrScheduleNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *MongoScheduleRepository) List(ctx context.Context, filter model.ScheduleFilter, page model.PageRequest) ([]model.Schedule, int64, error) {
	query := filterToBson(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset()))
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}

	schedules, err := database.FindGeneric[model.Schedule](ctx, r.collection, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

func (r *MongoScheduleRepository) Update(ctx context.Context, schedule model.Schedule, expectedVersion int64) (*model.Schedule, error) {
	schedule.Version = expectedVersion + 1

	updated, err := database.ReplaceGeneric[model.Schedule](ctx, r.collection,
		bson.M{"_id": schedule.ID, "version": expectedVersion}, schedule)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, database.ErrNoMatch) {
		return nil, err
	}

	// the filter missed: either the id is gone or the version moved on
	count, cErr := r.collection.CountDocuments(ctx, bson.M{"_id": schedule.ID})
	if cErr != nil {
		return nil, cErr
	}
	if count == 0 {
		return nil, customerrors.ErrScheduleNotFound
	}
	return nil, customerrors.ErrVersionConflict
}

func (r *MongoScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return customerrors.ErrScheduleNotFound
	}
	return nil
}

func (r *MongoScheduleRepository) All(ctx context.Context) ([]model.Schedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return database.FindGeneric[model.Schedule](ctx, r.collection, bson.M{}, opts)
}

func filterToBson(filter model.ScheduleFilter) bson.M {
	query := bson.M{}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	if filter.RIC != "" {
		query["ric"] = filter.RIC
	}
	if filter.Day != "" {
		query["day"] = string(filter.Day)
	}
	return query
}
