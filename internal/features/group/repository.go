package group

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-pdx/internal/database"
)

type GroupRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, g *Group) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Group, error)
	FindByCode(ctx context.Context, code string) (*Group, error)
	List(ctx context.Context) ([]Group, error)
	CountChildren(ctx context.Context, id primitive.ObjectID) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Group, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type GroupRepositoryImpl struct {
	collection *mongo.Collection
}

func NewGroupRepository(db *database.MongodbDB) GroupRepository {
	return &GroupRepositoryImpl{
		collection: db.DB.Collection("groups"),
	}
}

func (r *GroupRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return errors.Wrap(err, "failed to create group indexes")
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, g *Group) error {
	res, err := r.collection.InsertOne(ctx, g)
	if err != nil {
		return errors.Wrap(err, "failed to create group")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		g.ID = oid
	}
	return nil
}

func (r *GroupRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Group, error) {
	var g Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find group")
	}
	return &g, nil
}

func (r *GroupRepositoryImpl) FindByCode(ctx context.Context, code string) (*Group, error) {
	var g Group
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find group by code")
	}
	return &g, nil
}

func (r *GroupRepositoryImpl) List(ctx context.Context) ([]Group, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "name", Value: 1},
		}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups")
	}
	defer cursor.Close(ctx)

	groups := make([]Group, 0)
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, errors.Wrap(err, "failed to decode groups")
	}
	return groups, nil
}

func (r *GroupRepositoryImpl) CountChildren(ctx context.Context, id primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"parent_group": id})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count child groups")
	}
	return count, nil
}

func (r *GroupRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Group, error) {
	var g Group
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update group")
	}
	return &g, nil
}

func (r *GroupRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "failed to delete group")
}
