package submission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission statuses. Submitted is the entry state; Approved, Rejected
// and Processed are terminal on the common path, though an Approved item
// may still move on to Processed.
const (
	StatusSubmitted = "Submitted"
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusProcessed = "Processed"
)

// ValidStatus reports whether s is a known workflow status.
func ValidStatus(s string) bool {
	switch s {
	case StatusSubmitted, StatusPending, StatusApproved, StatusRejected, StatusProcessed:
		return true
	}
	return false
}

// HistoryEntry is one immutable record of a status or folder transition.
type HistoryEntry struct {
	Action          string              `json:"action" bson:"action"`
	PerformedBy     *primitive.ObjectID `json:"performed_by,omitempty" bson:"performed_by,omitempty"`
	PerformedByName string              `json:"performed_by_name" bson:"performed_by_name"`
	FromStatus      string              `json:"from_status,omitempty" bson:"from_status,omitempty"`
	ToStatus        string              `json:"to_status" bson:"to_status"`
	FromFolder      *primitive.ObjectID `json:"from_folder,omitempty" bson:"from_folder,omitempty"`
	ToFolder        *primitive.ObjectID `json:"to_folder,omitempty" bson:"to_folder,omitempty"`
	Comments        string              `json:"comments,omitempty" bson:"comments,omitempty"`
	Timestamp       time.Time           `json:"timestamp" bson:"timestamp"`
}

// AttachmentMeta references an uploaded blob by id; the bytes live in
// the blob store, never on the submission document.
type AttachmentMeta struct {
	FileID      primitive.ObjectID `json:"file_id" bson:"file_id"`
	FileName    string             `json:"file_name" bson:"file_name"`
	ContentType string             `json:"content_type" bson:"content_type"`
	Size        int64              `json:"size" bson:"size"`
	UploadedAt  time.Time          `json:"uploaded_at" bson:"uploaded_at"`
}

type Submission struct {
	ID                primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	SubmissionNumber  string                 `json:"submission_number" bson:"submission_number"`
	FormType          string                 `json:"form_type" bson:"form_type"`
	Status            string                 `json:"status" bson:"status"`
	SubmittedBy       primitive.ObjectID     `json:"submitted_by" bson:"submitted_by"`
	SubmitterMinistry string                 `json:"submitter_ministry,omitempty" bson:"submitter_ministry,omitempty"`
	TargetFolder      primitive.ObjectID     `json:"target_folder" bson:"target_folder"`
	CurrentFolder     primitive.ObjectID     `json:"current_folder" bson:"current_folder"`
	FormData          map[string]interface{} `json:"form_data,omitempty" bson:"form_data,omitempty"`
	Attachments       []AttachmentMeta       `json:"attachments" bson:"attachments"`
	WorkflowHistory   []HistoryEntry         `json:"workflow_history" bson:"workflow_history"`
	ReviewedBy        *primitive.ObjectID    `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time             `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	ReviewNotes       string                 `json:"review_notes,omitempty" bson:"review_notes,omitempty"`
	ProcessedBy       *primitive.ObjectID    `json:"processed_by,omitempty" bson:"processed_by,omitempty"`
	ProcessedAt       *time.Time             `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at" bson:"updated_at"`
}

type CreateSubmissionRequest struct {
	FormType     string                 `json:"form_type" validate:"required"`
	TargetFolder string                 `json:"target_folder" validate:"required"`
	FormData     map[string]interface{} `json:"form_data"`
}

type TransitionRequest struct {
	Status    string `json:"status" validate:"required"`
	Comments  string `json:"comments"`
	NewFolder string `json:"new_folder"`
}

type AddAttachmentRequest struct {
	FileID      string `json:"file_id" validate:"required"`
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
