package pdf

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBlobNotFound is returned for reads and deletes of unknown ids.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the narrow byte-storage boundary: content addressable by
// id, nothing else. Callers never see the storage engine's binary
// layout.
type BlobStore interface {
	Put(name string, meta FileMetadata, r io.Reader) (primitive.ObjectID, error)
	WriteTo(id primitive.ObjectID, w io.Writer) (int64, error)
	Stat(id primitive.ObjectID) (*StoredFile, error)
	Find(filter bson.M) ([]StoredFile, error)
	Delete(id primitive.ObjectID) error
}

type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(bucket *gridfs.Bucket) BlobStore {
	return &GridFSStore{bucket: bucket}
}

func (s *GridFSStore) Put(name string, meta FileMetadata, r io.Reader) (primitive.ObjectID, error) {
	id, err := s.bucket.UploadFromStream(name, r,
		options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "failed to store blob")
	}
	return id, nil
}

func (s *GridFSStore) WriteTo(id primitive.ObjectID, w io.Writer) (int64, error) {
	n, err := s.bucket.DownloadToStream(id, w)
	if err == gridfs.ErrFileNotFound {
		return 0, ErrBlobNotFound
	}
	if err != nil {
		return n, errors.Wrap(err, "failed to read blob")
	}
	return n, nil
}

func (s *GridFSStore) Stat(id primitive.ObjectID) (*StoredFile, error) {
	files, err := s.Find(bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrBlobNotFound
	}
	return &files[0], nil
}

func (s *GridFSStore) Find(filter bson.M) ([]StoredFile, error) {
	cursor, err := s.bucket.Find(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list blobs")
	}
	ctx := context.Background()
	defer cursor.Close(ctx)

	files := make([]StoredFile, 0)
	if err := cursor.All(ctx, &files); err != nil {
		return nil, errors.Wrap(err, "failed to decode blob metadata")
	}
	return files, nil
}

func (s *GridFSStore) Delete(id primitive.ObjectID) error {
	err := s.bucket.Delete(id)
	if err == gridfs.ErrFileNotFound {
		return ErrBlobNotFound
	}
	return errors.Wrap(err, "failed to delete blob")
}
