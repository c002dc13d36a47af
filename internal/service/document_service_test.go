package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"visaprep/internal/agent"
	"visaprep/internal/domain"
	"visaprep/internal/port"
	"visaprep/internal/service"
	"visaprep/mocks"
)

const extractionBatch = `{
  "extracted_fields": [
    {"field_name": "full_name", "field_value": "JOHN SMITH", "confidence_score": 0.9, "field_category": "personal"},
    {"field_name": "passport_number", "field_value": "A1234567", "confidence_score": 0.95, "field_category": "identification"}
  ]
}`

type documentServiceFixture struct {
	docRepo   *mocks.MockDocumentRepo
	fileRepo  *mocks.MockFileMetaRepo
	userRepo  *mocks.MockUserRepo
	storage   *mocks.MockObjectStorage
	extractor *mocks.MockTextExtractor
	client    *mocks.MockModelClient
	email     *mocks.MockEmailSender
	svc       service.DocumentService
}

func newDocumentServiceFixture() *documentServiceFixture {
	f := &documentServiceFixture{
		docRepo:   new(mocks.MockDocumentRepo),
		fileRepo:  new(mocks.MockFileMetaRepo),
		userRepo:  new(mocks.MockUserRepo),
		storage:   new(mocks.MockObjectStorage),
		extractor: new(mocks.MockTextExtractor),
		client:    new(mocks.MockModelClient),
		email:     new(mocks.MockEmailSender),
	}

	cfg := agent.DefaultConfig()
	cfg.RetryAttempts = 1
	cfg.EnableCorrection = false

	f.svc = service.NewDocumentService(
		f.docRepo, f.fileRepo, f.userRepo,
		f.storage, f.extractor,
		agent.New(f.client),
		service.NewAgentSettings(cfg),
		f.email,
	)
	return f
}

func uploadedFile(userID uuid.UUID) *domain.FileMeta {
	return &domain.FileMeta{
		ID:           uuid.New(),
		UserID:       userID,
		OriginalName: "passport-scan.pdf",
		FileType:     domain.FileTypePDF,
		S3Bucket:     "visaprep-uploads",
		S3Key:        "users/x/files/y/passport-scan.pdf",
		ContentType:  "application/pdf",
		Status:       domain.FileStatusUploaded,
	}
}

func TestDocumentCreate(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)

	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	doc, err := f.svc.Create(context.Background(), &service.CreateDocumentInput{
		UserID: userID,
		FileID: file.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExtractionStatusQueued, doc.ExtractionStatus)
	assert.Equal(t, "general", doc.DocumentCategory)
	assert.Equal(t, userID, doc.UserID)
	f.docRepo.AssertExpectations(t)
}

func TestDocumentCreate_FileNotUploaded(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)
	file.Status = domain.FileStatusPending

	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)

	_, err := f.svc.Create(context.Background(), &service.CreateDocumentInput{
		UserID: userID,
		FileID: file.ID,
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDocumentCreate_KeepsExplicitCategory(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)

	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	doc, err := f.svc.Create(context.Background(), &service.CreateDocumentInput{
		UserID:           userID,
		FileID:           file.ID,
		DocumentCategory: "passport",
		OCRText:          "Passport No: A1234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "passport", doc.DocumentCategory)
	assert.Equal(t, "Passport No: A1234567", doc.OCRText)
}

func TestGetResult_Completed(t *testing.T) {
	f := newDocumentServiceFixture()
	userID, docID := uuid.New(), uuid.New()

	stored, err := json.Marshal(&domain.ExtractionResult{
		DocumentType: "passport",
		ExtractedFields: []domain.ExtractedField{
			{FieldName: "full_name", FieldValue: "JOHN SMITH", ConfidenceScore: 0.9},
		},
	})
	require.NoError(t, err)

	f.docRepo.On("GetByID", mock.Anything, userID, docID).Return(&domain.Document{
		ID:               docID,
		ExtractionStatus: domain.ExtractionStatusCompleted,
		ExtractionResult: stored,
	}, nil)

	result, err := f.svc.GetResult(context.Background(), userID, docID)
	require.NoError(t, err)
	assert.Equal(t, "passport", result.DocumentType)
	require.Len(t, result.ExtractedFields, 1)
	assert.Equal(t, "JOHN SMITH", result.ExtractedFields[0].FieldValue)
}

func TestGetResult_NotCompleted(t *testing.T) {
	f := newDocumentServiceFixture()
	userID, docID := uuid.New(), uuid.New()

	for _, status := range []domain.ExtractionStatus{
		domain.ExtractionStatusQueued,
		domain.ExtractionStatusProcessing,
		domain.ExtractionStatusFailed,
	} {
		f.docRepo.On("GetByID", mock.Anything, userID, docID).Return(&domain.Document{
			ID:               docID,
			ExtractionStatus: status,
		}, nil).Once()

		_, err := f.svc.GetResult(context.Background(), userID, docID)
		assert.ErrorIs(t, err, domain.ErrExtractionIncomplete, string(status))
	}
}

func TestRetryExtraction_ResetsDocument(t *testing.T) {
	f := newDocumentServiceFixture()
	userID, docID := uuid.New(), uuid.New()
	file := uploadedFile(userID)
	extractedAt := time.Now()

	f.docRepo.On("GetByID", mock.Anything, userID, docID).Return(&domain.Document{
		ID:                 docID,
		UserID:             userID,
		FileID:             file.ID,
		ExtractionStatus:   domain.ExtractionStatusFailed,
		ExtractionError:    "extracting document: boom",
		ExtractionAttempts: 3,
		ExtractedAt:        &extractedAt,
	}, nil)
	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)

	var saved *domain.Document
	f.docRepo.On("UpdateExtraction", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Document) }).
		Return(nil)

	doc, err := f.svc.RetryExtraction(context.Background(), userID, docID)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, domain.ExtractionStatusQueued, doc.ExtractionStatus)
	assert.Empty(t, doc.ExtractionError)
	assert.Zero(t, doc.ExtractionAttempts)
	assert.Nil(t, doc.RetryAfter)
	assert.Nil(t, doc.ExtractedAt)
}

func TestExtractDocument_CompletesAndNotifies(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)
	user := &domain.User{ID: userID, Email: "john@example.com", FullName: "John Smith"}

	doc := &domain.Document{
		ID:                 uuid.New(),
		UserID:             userID,
		FileID:             file.ID,
		DocumentCategory:   "passport",
		ExtractionStatus:   domain.ExtractionStatusProcessing,
		ExtractionAttempts: 1,
	}

	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).Return([]byte("%PDF-1.4"), nil)
	f.extractor.On("ExtractText", []byte("%PDF-1.4"), "application/pdf").Return("Passport No: A1234567", nil)
	f.client.On("Complete", mock.Anything, mock.AnythingOfType("port.ModelRequest")).Return(extractionBatch, nil)

	var saved *domain.Document
	f.docRepo.On("UpdateExtraction", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Document) }).
		Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.email.On("SendExtractionComplete", mock.Anything, user.Email, user.FullName, file.OriginalName,
		mock.AnythingOfType("domain.ConfidenceSummary")).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	require.NotNil(t, saved)
	assert.Equal(t, domain.ExtractionStatusCompleted, saved.ExtractionStatus)
	assert.Equal(t, "gpt-4o", saved.ModelUsed)
	assert.NotNil(t, saved.ExtractedAt)
	assert.Empty(t, saved.ExtractionError)

	var result domain.ExtractionResult
	require.NoError(t, json.Unmarshal(saved.ExtractionResult, &result))
	assert.Equal(t, "passport", result.DocumentType)
	assert.Len(t, result.ExtractedFields, 2)

	f.email.AssertExpectations(t)
}

func TestExtractDocument_OCRTextSkipsDownload(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)

	doc := &domain.Document{
		ID:               uuid.New(),
		UserID:           userID,
		FileID:           file.ID,
		DocumentCategory: "passport",
		OCRText:          "Passport No: A1234567",
	}

	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.client.On("Complete", mock.Anything, mock.AnythingOfType("port.ModelRequest")).Return(extractionBatch, nil)
	f.docRepo.On("UpdateExtraction", mock.Anything, mock.Anything).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
	f.email.On("SendExtractionComplete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	f.storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	f.extractor.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestExtractDocument_RateLimitedRequeues(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)

	doc := &domain.Document{
		ID:                 uuid.New(),
		UserID:             userID,
		FileID:             file.ID,
		DocumentCategory:   "passport",
		OCRText:            "text",
		ExtractionAttempts: 1,
	}

	rlErr := agent.NewRateLimitError("openai", errors.New("429"), 30)
	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.client.On("Complete", mock.Anything, mock.AnythingOfType("port.ModelRequest")).Return("", rlErr)

	var requeued *domain.Document
	f.docRepo.On("Requeue", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) { requeued = args.Get(1).(*domain.Document) }).
		Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	require.NotNil(t, requeued)
	require.NotNil(t, requeued.RetryAfter)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), *requeued.RetryAfter, 5*time.Second)
	assert.Contains(t, requeued.ExtractionError, "rate limited by openai")
	f.docRepo.AssertNotCalled(t, "UpdateExtraction", mock.Anything, mock.Anything)
	f.email.AssertNotCalled(t, "SendExtractionFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractDocument_RateLimitBudgetExhaustedFails(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)
	user := &domain.User{ID: userID, Email: "john@example.com", FullName: "John Smith"}

	doc := &domain.Document{
		ID:                 uuid.New(),
		UserID:             userID,
		FileID:             file.ID,
		DocumentCategory:   "passport",
		OCRText:            "text",
		ExtractionAttempts: 3,
	}

	rlErr := agent.NewRateLimitError("openai", errors.New("429"), 30)
	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.client.On("Complete", mock.Anything, mock.AnythingOfType("port.ModelRequest")).Return("", rlErr)

	var saved *domain.Document
	f.docRepo.On("UpdateExtraction", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Document) }).
		Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(user, nil)
	f.email.On("SendExtractionFailed", mock.Anything, user.Email, user.FullName, file.OriginalName,
		mock.AnythingOfType("string")).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	require.NotNil(t, saved)
	assert.Equal(t, domain.ExtractionStatusFailed, saved.ExtractionStatus)
	assert.NotEmpty(t, saved.ExtractionError)
	f.docRepo.AssertNotCalled(t, "Requeue", mock.Anything, mock.Anything)
	f.email.AssertExpectations(t)
}

func TestExtractDocument_TextExtractionFailureFails(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)

	doc := &domain.Document{
		ID:     uuid.New(),
		UserID: userID,
		FileID: file.ID,
	}

	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).Return([]byte("data"), nil)
	f.extractor.On("ExtractText", mock.Anything, mock.Anything).Return("", domain.ErrNoDocumentText)

	var saved *domain.Document
	f.docRepo.On("UpdateExtraction", mock.Anything, mock.AnythingOfType("*domain.Document")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Document) }).
		Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
	f.email.On("SendExtractionFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)

	require.NotNil(t, saved)
	assert.Equal(t, domain.ExtractionStatusFailed, saved.ExtractionStatus)
	assert.Contains(t, saved.ExtractionError, "extracting text")
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestExtractDocument_UsesModelFromSettings(t *testing.T) {
	f := newDocumentServiceFixture()
	userID := uuid.New()
	file := uploadedFile(userID)

	doc := &domain.Document{
		ID:      uuid.New(),
		UserID:  userID,
		FileID:  file.ID,
		OCRText: "text",
	}

	f.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	f.client.On("Complete", mock.Anything, mock.MatchedBy(func(req port.ModelRequest) bool {
		return req.Model == "gpt-4o" && req.JSONResponse
	})).Return(extractionBatch, nil)
	f.docRepo.On("UpdateExtraction", mock.Anything, mock.Anything).Return(nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
	f.email.On("SendExtractionComplete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	f.svc.ExtractDocument(context.Background(), doc, 3)
	f.client.AssertExpectations(t)
}
