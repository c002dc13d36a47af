package port

import (
	"context"

	"github.com/google/uuid"

	"visaprep/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// FileMetaRepository defines the contract for uploaded-file metadata.
type FileMetaRepository interface {
	Create(ctx context.Context, file *domain.FileMeta) error
	GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, userID, fileID uuid.UUID) error
}

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error)
	GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error)
	ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error)
	UpdateExtraction(ctx context.Context, doc *domain.Document) error
	Requeue(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, userID, docID uuid.UUID) error
}
