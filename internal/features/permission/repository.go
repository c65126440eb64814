package permission

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-pdx/internal/database"
)

type PermissionRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, p *Permission) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Permission, error)
	FindByKey(ctx context.Context, key string) (*Permission, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Permission, error)
	List(ctx context.Context) ([]Permission, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Permission, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PermissionRepositoryImpl struct {
	collection *mongo.Collection
}

func NewPermissionRepository(db *database.MongodbDB) PermissionRepository {
	return &PermissionRepositoryImpl{
		collection: db.DB.Collection("permissions"),
	}
}

func (r *PermissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "failed to create permission indexes")
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, p *Permission) error {
	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return errors.Wrap(err, "failed to create permission")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *PermissionRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Permission, error) {
	var p Permission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find permission")
	}
	return &p, nil
}

func (r *PermissionRepositoryImpl) FindByKey(ctx context.Context, key string) (*Permission, error) {
	var p Permission
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find permission by key")
	}
	return &p, nil
}

func (r *PermissionRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Permission, error) {
	if len(ids) == 0 {
		return []Permission{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find permissions")
	}
	defer cursor.Close(ctx)

	perms := make([]Permission, 0, len(ids))
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, errors.Wrap(err, "failed to decode permissions")
	}
	return perms, nil
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]Permission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list permissions")
	}
	defer cursor.Close(ctx)

	perms := make([]Permission, 0)
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, errors.Wrap(err, "failed to decode permissions")
	}
	return perms, nil
}

func (r *PermissionRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Permission, error) {
	var p Permission
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update permission")
	}
	return &p, nil
}

func (r *PermissionRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "failed to delete permission")
}
