package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"visaprep/internal/agent"
	"visaprep/internal/catalog"
	"visaprep/internal/domain"
	"visaprep/internal/port"
)

// CreateDocumentInput is the DTO for registering a document for extraction.
type CreateDocumentInput struct {
	UserID           uuid.UUID
	FileID           uuid.UUID
	DocumentCategory string
	// OCRText carries caller-supplied text for image uploads, which have no
	// extractable text layer of their own.
	OCRText string
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error)
	GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error)
	GetResult(ctx context.Context, userID, docID uuid.UUID) (*domain.ExtractionResult, error)
	RetryExtraction(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) error
	ExtractDocument(ctx context.Context, doc *domain.Document, maxAttempts int)
}

type documentService struct {
	docRepo   port.DocumentRepository
	fileRepo  port.FileMetaRepository
	userRepo  port.UserRepository
	storage   port.ObjectStorage
	extractor port.TextExtractor
	agent     *agent.Agent
	settings  *AgentSettings
	email     port.EmailSender
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	fileRepo port.FileMetaRepository,
	userRepo port.UserRepository,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	extractionAgent *agent.Agent,
	settings *AgentSettings,
	email port.EmailSender,
) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		fileRepo:  fileRepo,
		userRepo:  userRepo,
		storage:   storage,
		extractor: extractor,
		agent:     extractionAgent,
		settings:  settings,
		email:     email,
	}
}

func (s *documentService) Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error) {
	// Verify the file exists and belongs to the caller
	file, err := s.fileRepo.GetByID(ctx, input.UserID, input.FileID)
	if err != nil {
		return nil, fmt.Errorf("looking up file: %w", err)
	}
	if file.Status != domain.FileStatusUploaded {
		return nil, domain.ErrUploadFailed
	}

	category := input.DocumentCategory
	if category == "" {
		category = "general"
	}

	doc := &domain.Document{
		ID:               uuid.New(),
		UserID:           input.UserID,
		FileID:           input.FileID,
		DocumentCategory: category,
		OCRText:          input.OCRText,
		ExtractionStatus: domain.ExtractionStatusQueued,
		ExtractionResult: json.RawMessage("{}"),
	}

	log.Printf("documentService.Create: queueing document %s for file %s (user %s)",
		doc.ID, input.FileID, input.UserID)

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, userID, docID)
}

func (s *documentService) GetByFileID(ctx context.Context, userID, fileID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByFileID(ctx, userID, fileID)
}

func (s *documentService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *documentService) GetResult(ctx context.Context, userID, docID uuid.UUID) (*domain.ExtractionResult, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	if doc.ExtractionStatus != domain.ExtractionStatusCompleted {
		return nil, domain.ErrExtractionIncomplete
	}
	var result domain.ExtractionResult
	if err := json.Unmarshal(doc.ExtractionResult, &result); err != nil {
		return nil, fmt.Errorf("documentService.GetResult: decoding stored result: %w", err)
	}
	return &result, nil
}

func (s *documentService) RetryExtraction(ctx context.Context, userID, docID uuid.UUID) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	// Verify the file still exists
	if _, err := s.fileRepo.GetByID(ctx, userID, doc.FileID); err != nil {
		return nil, fmt.Errorf("looking up file for retry: %w", err)
	}

	doc.ExtractionStatus = domain.ExtractionStatusQueued
	doc.ExtractionError = ""
	doc.ExtractionResult = json.RawMessage("{}")
	doc.ExtractionAttempts = 0
	doc.RetryAfter = nil
	doc.ExtractedAt = nil
	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		return nil, fmt.Errorf("resetting document for retry: %w", err)
	}

	log.Printf("documentService.RetryExtraction: requeued document %s", docID)
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	return s.docRepo.Delete(ctx, userID, docID)
}

// ExtractDocument performs the extraction for one claimed document: file
// lookup, S3 download, text extraction, the agent pipeline, result saving and
// user notification. It is called by the queue worker with the document
// already in processing status and its attempt counter incremented.
func (s *documentService) ExtractDocument(ctx context.Context, doc *domain.Document, maxAttempts int) {
	file, err := s.fileRepo.GetByID(ctx, doc.UserID, doc.FileID)
	if err != nil {
		s.failExtraction(ctx, doc, fmt.Sprintf("looking up file: %v", err))
		return
	}

	text, err := s.documentText(ctx, doc, file)
	if err != nil {
		s.failExtraction(ctx, doc, fmt.Sprintf("extracting text: %v", err))
		return
	}

	// Snapshot runtime settings so a concurrent settings update cannot
	// change the config mid-run.
	cfg := s.settings.Get()

	result, err := s.agent.Extract(ctx, cfg, agent.ExtractionContext{
		DocumentCategory: doc.DocumentCategory,
		DocumentText:     text,
		FileType:         string(file.FileType),
		Filename:         file.OriginalName,
		UserID:           doc.UserID,
		DocumentID:       doc.ID,
	})
	if err != nil {
		s.handleExtractionError(ctx, doc, err, maxAttempts)
		return
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		s.failExtraction(ctx, doc, fmt.Sprintf("encoding result: %v", err))
		return
	}

	now := time.Now().UTC()
	doc.ExtractionStatus = domain.ExtractionStatusCompleted
	doc.ExtractionError = ""
	doc.ExtractionResult = resultJSON
	doc.ModelUsed = cfg.Model
	doc.RetryAfter = nil
	doc.ExtractedAt = &now

	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		log.Printf("documentService.ExtractDocument: failed to save results for %s: %v", doc.ID, err)
		return
	}

	log.Printf("documentService.ExtractDocument: document %s extracted (%d fields, overall confidence %.2f)",
		doc.ID, len(result.ExtractedFields), result.ConfidenceSummary.OverallConfidence)

	s.notifyComplete(ctx, doc, file.OriginalName, result.ConfidenceSummary)
}

// documentText resolves the text the agent will read. Caller-supplied OCR
// text wins for image uploads; everything else goes through the extractor.
func (s *documentService) documentText(ctx context.Context, doc *domain.Document, file *domain.FileMeta) (string, error) {
	if doc.OCRText != "" {
		return doc.OCRText, nil
	}

	fileBytes, err := s.storage.Download(ctx, file.S3Bucket, file.S3Key)
	if err != nil {
		return "", fmt.Errorf("downloading file: %w", err)
	}

	text, err := s.extractor.ExtractText(fileBytes, file.ContentType)
	if err != nil {
		return "", err
	}
	return text, nil
}

// handleExtractionError requeues the document when the provider rate-limited
// us and there is retry budget left; otherwise the document fails for good.
func (s *documentService) handleExtractionError(ctx context.Context, doc *domain.Document, extractErr error, maxAttempts int) {
	var rlErr *agent.RateLimitError
	if errors.As(extractErr, &rlErr) && doc.ExtractionAttempts < maxAttempts {
		retryAt := time.Now().Add(rlErr.RetryAfter)
		doc.ExtractionError = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
		doc.RetryAfter = &retryAt
		if err := s.docRepo.Requeue(ctx, doc); err != nil {
			log.Printf("documentService.handleExtractionError: failed to requeue document %s: %v", doc.ID, err)
		} else {
			log.Printf("documentService.handleExtractionError: document %s queued for retry after %s",
				doc.ID, retryAt.Format(time.RFC3339))
		}
		return
	}
	s.failExtraction(ctx, doc, fmt.Sprintf("extracting document: %v", extractErr))
}

func (s *documentService) failExtraction(ctx context.Context, doc *domain.Document, errMsg string) {
	log.Printf("documentService.failExtraction: document %s failed: %s", doc.ID, errMsg)
	doc.ExtractionStatus = domain.ExtractionStatusFailed
	doc.ExtractionError = errMsg
	doc.RetryAfter = nil
	if err := s.docRepo.UpdateExtraction(ctx, doc); err != nil {
		log.Printf("documentService.failExtraction: failed to update status for %s: %v", doc.ID, err)
		return
	}

	if s.email == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, doc.UserID)
	if err != nil {
		return
	}
	name := documentDisplayName(ctx, s.fileRepo, doc)
	if err := s.email.SendExtractionFailed(ctx, user.Email, user.FullName, name, errMsg); err != nil {
		log.Printf("documentService.failExtraction: failed to send notification for %s: %v", doc.ID, err)
	}
}

func (s *documentService) notifyComplete(ctx context.Context, doc *domain.Document, documentName string, summary domain.ConfidenceSummary) {
	if s.email == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, doc.UserID)
	if err != nil {
		log.Printf("documentService.notifyComplete: failed to look up user %s: %v", doc.UserID, err)
		return
	}
	if err := s.email.SendExtractionComplete(ctx, user.Email, user.FullName, documentName, summary); err != nil {
		log.Printf("documentService.notifyComplete: failed to send notification for %s: %v", doc.ID, err)
	}
}

func documentDisplayName(ctx context.Context, fileRepo port.FileMetaRepository, doc *domain.Document) string {
	if file, err := fileRepo.GetByID(ctx, doc.UserID, doc.FileID); err == nil {
		return file.OriginalName
	}
	if tmpl := catalog.TemplateForCategory(doc.DocumentCategory); tmpl != nil {
		return tmpl.Name
	}
	return doc.ID.String()
}
