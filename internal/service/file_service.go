package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"visaprep/internal/config"
	"visaprep/internal/domain"
	"visaprep/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	UserID uuid.UUID
	File   multipart.File
	Header *multipart.FileHeader
}

// FileService defines the file management contract.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	GetDownloadURL(ctx context.Context, userID, fileID uuid.UUID) (string, error)
	Delete(ctx context.Context, userID, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	cfg      *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

// checkUpload enforces the upload policy: extension on the allow-list,
// size within the configured cap, and sniffed content matching an allowed
// type. The extension alone is not trusted; a renamed binary fails the
// sniff check.
func (s *fileService) checkUpload(input FileUploadInput) (domain.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}

	if input.Header.Size > s.cfg.MaxFileSizeMB*1024*1024 {
		return "", domain.ErrFileTooLarge
	}

	head := make([]byte, 512)
	n, err := input.File.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading file header: %w", err)
	}
	// DetectContentType appends "; charset=..." for text types.
	sniffed, _, _ := strings.Cut(http.DetectContentType(head[:n]), ";")
	if _, ok := domain.AllowedContentTypes[strings.TrimSpace(sniffed)]; !ok {
		return "", domain.ErrUnsupportedFileType
	}

	// Rewind so the upload streams from the start.
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking file: %w", err)
	}
	return fileType, nil
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	fileType, err := s.checkUpload(input)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	contentType := domain.AllowedFileTypes[fileType]
	meta := &domain.FileMeta{
		ID:           fileID,
		UserID:       input.UserID,
		FileName:     fileID.String() + strings.ToLower(filepath.Ext(input.Header.Filename)),
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        fmt.Sprintf("users/%s/files/%s/%s", input.UserID, fileID, input.Header.Filename),
		ContentType:  contentType,
		Status:       domain.FileStatusPending,
	}

	log.Printf("fileService.Upload: user %s uploading %s (%s, %d bytes)",
		input.UserID, input.Header.Filename, contentType, input.Header.Size)

	// The row is written first so a crashed upload leaves a pending record
	// to reconcile rather than an orphaned object.
	if err := s.fileRepo.Create(ctx, meta); err != nil {
		log.Printf("fileService.Upload: creating metadata for %s: %v", meta.ID, err)
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      meta.S3Bucket,
		Key:         meta.S3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	}); err != nil {
		log.Printf("fileService.Upload: storage upload for %s: %v", meta.ID, err)
		_ = s.fileRepo.UpdateStatus(ctx, meta.ID, domain.FileStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded
	return meta, nil
}

func (s *fileService) GetByID(ctx context.Context, userID, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, userID, fileID)
}

func (s *fileService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error) {
	return s.fileRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *fileService) GetDownloadURL(ctx context.Context, userID, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, userID, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.cfg.PresignExpiry)
}

// Delete removes the stored object before the metadata row. If the object
// delete fails the row survives, so the file stays visible and the delete
// can be retried.
func (s *fileService) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	meta, err := s.fileRepo.GetByID(ctx, userID, fileID)
	if err != nil {
		return err
	}

	log.Printf("fileService.Delete: user %s deleting file %s", userID, fileID)
	if err := s.storage.Delete(ctx, meta.S3Bucket, meta.S3Key); err != nil {
		log.Printf("fileService.Delete: storage delete for %s: %v", fileID, err)
		return fmt.Errorf("deleting from storage: %w", err)
	}
	return s.fileRepo.Delete(ctx, userID, fileID)
}
