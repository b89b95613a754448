package models

import "time"

// Upload categories, chosen by file extension at upload time.
const (
	UploadTypeImage = "image"
	UploadTypeVideo = "video"
	UploadTypeText  = "text"
	UploadTypeOther = "other"
)

// Upload records a file accepted through the upload endpoint. AssignedTo
// starts as the uploader and can later be reassigned by an admin.
type Upload struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Filename   string    `json:"filename" gorm:"uniqueIndex;not null"`
	Type       string    `json:"type" gorm:"not null"`
	Uploader   string    `json:"uploader" gorm:"not null"`
	AssignedTo string    `json:"assigned_to" gorm:"index;not null"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"upload_date"`

	// filled in by the background upload worker for images
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	TakenAt       *int64  `json:"taken_at,omitempty"`
	CameraMake    *string `json:"camera_make,omitempty"`
	CameraModel   *string `json:"camera_model,omitempty"`
	FaceCount     *int    `json:"face_count,omitempty"`
}
