package systemevent

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-pdx/internal/database"
)

type SystemEventRepository interface {
	Create(ctx context.Context, event *SystemEvent) error
	List(ctx context.Context, limit, offset int64) ([]SystemEvent, error)
	Count(ctx context.Context) (int64, error)
}

type SystemEventRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSystemEventRepository(db *database.MongodbDB) SystemEventRepository {
	return &SystemEventRepositoryImpl{
		collection: db.DB.Collection("systemevents"),
	}
}

func (r *SystemEventRepositoryImpl) Create(ctx context.Context, event *SystemEvent) error {
	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return errors.Wrap(err, "failed to record system event")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
	}
	return nil
}

func (r *SystemEventRepositoryImpl) List(ctx context.Context, limit, offset int64) ([]SystemEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list system events")
	}
	defer cursor.Close(ctx)

	events := make([]SystemEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, errors.Wrap(err, "failed to decode system events")
	}
	return events, nil
}

func (r *SystemEventRepositoryImpl) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count system events")
	}
	return count, nil
}
