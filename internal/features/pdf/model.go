package pdf

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileMetadata is stored alongside each blob and carries ownership.
type FileMetadata struct {
	UserID       primitive.ObjectID `json:"user_id" bson:"userId"`
	OriginalName string             `json:"original_name" bson:"originalName"`
	ContentType  string             `json:"content_type" bson:"contentType"`
}

// StoredFile is the metadata view of one stored blob.
type StoredFile struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"file_name" bson:"filename"`
	Length     int64              `json:"size" bson:"length"`
	UploadDate time.Time          `json:"uploaded_at" bson:"uploadDate"`
	Metadata   FileMetadata       `json:"metadata" bson:"metadata"`
}
