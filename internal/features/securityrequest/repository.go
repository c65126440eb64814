package securityrequest

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-pdx/internal/database"
)

type SecurityRequestRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, r *SecurityRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*SecurityRequest, error)
	Find(ctx context.Context, filter bson.M) ([]SecurityRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, update bson.M) (*SecurityRequest, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SecurityRequestRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSecurityRequestRepository(db *database.MongodbDB) SecurityRequestRepository {
	return &SecurityRequestRepositoryImpl{
		collection: db.DB.Collection("security_requests"),
	}
}

func (r *SecurityRequestRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "requestor.current_ministry", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})
	return errors.Wrap(err, "failed to create security request indexes")
}

func (r *SecurityRequestRepositoryImpl) Create(ctx context.Context, req *SecurityRequest) error {
	res, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return errors.Wrap(err, "failed to create security request")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (r *SecurityRequestRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*SecurityRequest, error) {
	var req SecurityRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find security request")
	}
	return &req, nil
}

func (r *SecurityRequestRepositoryImpl) Find(ctx context.Context, filter bson.M) ([]SecurityRequest, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list security requests")
	}
	defer cursor.Close(ctx)

	reqs := make([]SecurityRequest, 0)
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, errors.Wrap(err, "failed to decode security requests")
	}
	return reqs, nil
}

func (r *SecurityRequestRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, update bson.M) (*SecurityRequest, error) {
	var req SecurityRequest
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update security request")
	}
	return &req, nil
}

func (r *SecurityRequestRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "failed to delete security request")
}
