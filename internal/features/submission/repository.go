package submission

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-pdx/internal/database"
)

type SubmissionRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, s *Submission) error
	FindByID(ctx context.Context, filter bson.M) (*Submission, error)
	Find(ctx context.Context, filter bson.M) ([]Submission, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	// ApplyTransition sets the given fields and appends one history
	// entry in a single atomic update.
	ApplyTransition(ctx context.Context, id primitive.ObjectID, set bson.M, entry HistoryEntry) (*Submission, error)
	PushAttachment(ctx context.Context, id primitive.ObjectID, att AttachmentMeta) (*Submission, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SubmissionRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSubmissionRepository(db *database.MongodbDB) SubmissionRepository {
	return &SubmissionRepositoryImpl{
		collection: db.DB.Collection("submissions"),
	}
}

func (r *SubmissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "submission_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "submitted_by", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "current_folder", Value: 1}},
		},
	})
	return errors.Wrap(err, "failed to create submission indexes")
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, s *Submission) error {
	res, err := r.collection.InsertOne(ctx, s)
	if err != nil {
		return errors.Wrap(err, "failed to create submission")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

func (r *SubmissionRepositoryImpl) FindByID(ctx context.Context, filter bson.M) (*Submission, error) {
	var s Submission
	err := r.collection.FindOne(ctx, filter).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find submission")
	}
	return &s, nil
}

func (r *SubmissionRepositoryImpl) Find(ctx context.Context, filter bson.M) ([]Submission, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list submissions")
	}
	defer cursor.Close(ctx)

	subs := make([]Submission, 0)
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, errors.Wrap(err, "failed to decode submissions")
	}
	return subs, nil
}

func (r *SubmissionRepositoryImpl) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count submissions")
	}
	return count, nil
}

func (r *SubmissionRepositoryImpl) ApplyTransition(ctx context.Context, id primitive.ObjectID, set bson.M, entry HistoryEntry) (*Submission, error) {
	var s Submission
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":  set,
			"$push": bson.M{"workflow_history": entry},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply submission transition")
	}
	return &s, nil
}

func (r *SubmissionRepositoryImpl) PushAttachment(ctx context.Context, id primitive.ObjectID, att AttachmentMeta) (*Submission, error) {
	var s Submission
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":  bson.M{"updated_at": att.UploadedAt},
			"$push": bson.M{"attachments": att},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to attach file to submission")
	}
	return &s, nil
}

func (r *SubmissionRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrap(err, "failed to delete submission")
}
