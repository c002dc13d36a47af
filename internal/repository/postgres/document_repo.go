package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"visaprep/internal/domain"
	"visaprep/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, user_id, file_id, document_category, ocr_text,
		extraction_status, extraction_error, extraction_result,
		model_used, extraction_attempts, retry_after, extracted_at,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11, $12,
		$13, $14
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.UserID, doc.FileID, doc.DocumentCategory, doc.OCRText,
		doc.ExtractionStatus, doc.ExtractionError, doc.ExtractionResult,
		doc.ModelUsed, doc.ExtractionAttempts, doc.RetryAfter, doc.ExtractedAt,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "file_id") {
			return domain.ErrDocumentAlreadyExists
		}
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE file_id = $1 AND user_id = $2", fileID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByFileID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM documents WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByUser count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByUser: %w", err)
	}
	return docs, total, nil
}

// ClaimQueued atomically marks up to limit queued documents as processing and
// returns them. SKIP LOCKED keeps concurrent workers from claiming the same
// rows; retry_after holds back rate-limited documents until their backoff
// expires.
func (r *documentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`UPDATE documents SET
			extraction_status = $1,
			extraction_attempts = extraction_attempts + 1,
			updated_at = $2
		 WHERE id IN (
			SELECT id FROM documents
			WHERE extraction_status = $3
			  AND (retry_after IS NULL OR retry_after <= $2)
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.ExtractionStatusProcessing, time.Now().UTC(),
		domain.ExtractionStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateExtraction(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			extraction_status = $1, extraction_error = $2, extraction_result = $3,
			model_used = $4, extraction_attempts = $5, retry_after = $6,
			extracted_at = $7, updated_at = $8
		 WHERE id = $9 AND user_id = $10`,
		doc.ExtractionStatus, doc.ExtractionError, doc.ExtractionResult,
		doc.ModelUsed, doc.ExtractionAttempts, doc.RetryAfter,
		doc.ExtractedAt, doc.UpdatedAt,
		doc.ID, doc.UserID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateExtraction: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// Requeue puts a document back in the queue, typically after a transient
// failure, preserving the attempt counter and any retry_after hold.
func (r *documentRepo) Requeue(ctx context.Context, doc *domain.Document) error {
	doc.ExtractionStatus = domain.ExtractionStatusQueued
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			extraction_status = $1, extraction_error = $2,
			retry_after = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6`,
		doc.ExtractionStatus, doc.ExtractionError,
		doc.RetryAfter, doc.UpdatedAt,
		doc.ID, doc.UserID)
	if err != nil {
		return fmt.Errorf("documentRepo.Requeue: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
