package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a registered applicant account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded document file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Document represents one uploaded document going through the extraction
// pipeline. The extraction result is stored as a JSONB blob; OCRText holds
// caller-supplied text for image uploads that have no extractable text layer.
type Document struct {
	ID                 uuid.UUID        `db:"id" json:"id"`
	UserID             uuid.UUID        `db:"user_id" json:"user_id"`
	FileID             uuid.UUID        `db:"file_id" json:"file_id"`
	DocumentCategory   string           `db:"document_category" json:"document_category"`
	OCRText            string           `db:"ocr_text" json:"-"`
	ExtractionStatus   ExtractionStatus `db:"extraction_status" json:"extraction_status"`
	ExtractionError    string           `db:"extraction_error" json:"extraction_error"`
	ExtractionResult   json.RawMessage  `db:"extraction_result" json:"extraction_result"`
	ModelUsed          string           `db:"model_used" json:"model_used"`
	ExtractionAttempts int              `db:"extraction_attempts" json:"extraction_attempts"`
	RetryAfter         *time.Time       `db:"retry_after" json:"retry_after"`
	ExtractedAt        *time.Time       `db:"extracted_at" json:"extracted_at"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}
