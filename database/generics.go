package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoMatch is returned when a filtered write matched no document.
var ErrNoMatch = errors.New("no document matched the filter")

// ReplaceGeneric swaps the document matching filter for doc and returns the
// stored result.
func ReplaceGeneric[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, doc interface{}) (*T, error) {
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var replaced T
	err := collection.FindOneAndReplace(ctx, filter, doc, opts).Decode(&replaced)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoMatch
		}
		return nil, err
	}

	return &replaced, nil
}

// FindGeneric runs a filtered query and decodes every document. An empty
// result is an empty slice, never nil.
func FindGeneric[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		return []T{}, nil
	}
	return docs, nil
}
