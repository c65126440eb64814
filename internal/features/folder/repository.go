package folder

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-pdx/internal/database"
)

type FolderRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, f *Folder) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Folder, error)
	FindByPage(ctx context.Context, page string) (*Folder, error)
	// Find returns folders matching the caller-built filter, ordered by
	// sort order then name.
	Find(ctx context.Context, filter bson.M) ([]Folder, error)
	FindOne(ctx context.Context, filter bson.M) (*Folder, error)
	MaxSortOrder(ctx context.Context, parentPath string) (int, error)
	SiblingExists(ctx context.Context, name string, parentFolder *primitive.ObjectID, excludeID primitive.ObjectID) (bool, error)
	CountChildren(ctx context.Context, id primitive.ObjectID, page string) (int64, error)
	CountByGroup(ctx context.Context, group string) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Folder, error)
	UpdateSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FolderRepositoryImpl struct {
	collection *mongo.Collection
}

func NewFolderRepository(db *database.MongodbDB) FolderRepository {
	return &FolderRepositoryImpl{
		collection: db.DB.Collection("folders"),
	}
}

func (r *FolderRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "page", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "parent_folder", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "parent_path", Value: 1}, {Key: "is_active", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "group", Value: 1}},
		},
	})
	return errors.Wrap(err, "failed to create folder indexes")
}

func (r *FolderRepositoryImpl) Create(ctx context.Context, f *Folder) error {
	res, err := r.collection.InsertOne(ctx, f)
	if err != nil {
		return errors.Wrap(err, "failed to create folder")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return nil
}

func (r *FolderRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Folder, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *FolderRepositoryImpl) FindByPage(ctx context.Context, page string) (*Folder, error) {
	return r.FindOne(ctx, bson.M{"page": page})
}

func (r *FolderRepositoryImpl) FindOne(ctx context.Context, filter bson.M) (*Folder, error) {
	var f Folder
	err := r.collection.FindOne(ctx, filter).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find folder")
	}
	return &f, nil
}

func (r *FolderRepositoryImpl) Find(ctx context.Context, filter bson.M) ([]Folder, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{
			{Key: "sort_order", Value: 1},
			{Key: "name", Value: 1},
		}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list folders")
	}
	defer cursor.Close(ctx)

	folders := make([]Folder, 0)
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, errors.Wrap(err, "failed to decode folders")
	}
	return folders, nil
}

func (r *FolderRepositoryImpl) MaxSortOrder(ctx context.Context, parentPath string) (int, error) {
	var f Folder
	err := r.collection.FindOne(ctx,
		bson.M{"parent_path": parentPath},
		options.FindOne().SetSort(bson.D{{Key: "sort_order", Value: -1}}),
	).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to find max sort order")
	}
	return f.SortOrder, nil
}

func (r *FolderRepositoryImpl) SiblingExists(ctx context.Context, name string, parentFolder *primitive.ObjectID, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"name": name}
	if parentFolder != nil {
		filter["parent_folder"] = *parentFolder
	} else {
		filter["parent_folder"] = nil
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "failed to check sibling name")
	}
	return count > 0, nil
}

// CountChildren counts folders referencing this one either by parent id
// or by denormalized parent path.
func (r *FolderRepositoryImpl) CountChildren(ctx context.Context, id primitive.ObjectID, page string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"$or": []bson.M{
			{"parent_folder": id},
			{"parent_path": page},
		},
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count child folders")
	}
	return count, nil
}

func (r *FolderRepositoryImpl) CountByGroup(ctx context.Context, group string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"group": group})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count folders by group")
	}
	return count, nil
}

func (r *FolderRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*Folder, error) {
	var f Folder
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update folder")
	}
	return &f, nil
}

func (r *FolderRepositoryImpl) UpdateSortOrder(ctx context.Context, id primitive.ObjectID, sortOrder int) error {
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"sort_order": sortOrder}})
	if err != nil {
		return errors.Wrap(err, "failed to update sort order")
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *FolderRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "failed to delete folder")
}
