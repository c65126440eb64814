package role

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-pdx/internal/database"
)

type RoleRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Role, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	RemovePermissionFromRoles(ctx context.Context, permissionID primitive.ObjectID) error
}

type RoleRepositoryImpl struct {
	collection *mongo.Collection
}

func NewRoleRepository(db *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		collection: db.DB.Collection("roles"),
	}
}

func (r *RoleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "failed to create role indexes")
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *Role) error {
	res, err := r.collection.InsertOne(ctx, role)
	if err != nil {
		return errors.Wrap(err, "failed to create role")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		role.ID = oid
	}
	return nil
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Role, error) {
	var role Role
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find role")
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find role by name")
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]Role, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list roles")
	}
	defer cursor.Close(ctx)

	roles := make([]Role, 0)
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, errors.Wrap(err, "failed to decode roles")
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Role, error) {
	var role Role
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&role)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update role")
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "failed to delete role")
}

// RemovePermissionFromRoles pulls the permission id out of every role's
// permission list in a single update.
func (r *RoleRepositoryImpl) RemovePermissionFromRoles(ctx context.Context, permissionID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"permissions": permissionID},
		bson.M{"$pull": bson.M{"permissions": permissionID}})
	return errors.Wrap(err, "failed to remove permission from roles")
}
