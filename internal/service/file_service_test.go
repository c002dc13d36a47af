package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"visaprep/internal/config"
	"visaprep/internal/domain"
	"visaprep/internal/port"
	"visaprep/internal/service"
	"visaprep/mocks"
)

// memFile is an in-memory multipart.File.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) multipart.File {
	return memFile{bytes.NewReader(data)}
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n" + strings.Repeat("x", 100))
}

func testS3Config() *config.S3Config {
	return &config.S3Config{
		Bucket:        "visaprep-uploads",
		MaxFileSizeMB: 10,
		PresignExpiry: 900,
	}
}

func uploadInput(name string, data []byte) service.FileUploadInput {
	return service.FileUploadInput{
		UserID: uuid.New(),
		File:   newMemFile(data),
		Header: &multipart.FileHeader{
			Filename: name,
			Size:     int64(len(data)),
		},
	}
}

func TestFileUpload_PDF(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	input := uploadInput("passport-scan.pdf", pdfBytes())

	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	var uploaded port.UploadInput
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Run(func(args mock.Arguments) { uploaded = args.Get(1).(port.UploadInput) }).
		Return(&port.UploadOutput{Location: "s3://visaprep-uploads/x"}, nil)
	fileRepo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).Return(nil)

	meta, err := svc.Upload(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.FileStatusUploaded, meta.Status)
	assert.Equal(t, domain.FileTypePDF, meta.FileType)
	assert.Equal(t, "application/pdf", meta.ContentType)
	assert.Equal(t, "passport-scan.pdf", meta.OriginalName)
	assert.Equal(t, "visaprep-uploads", meta.S3Bucket)
	assert.Contains(t, meta.S3Key, "users/"+input.UserID.String()+"/files/")
	assert.True(t, strings.HasSuffix(meta.S3Key, "/passport-scan.pdf"))

	assert.Equal(t, "visaprep-uploads", uploaded.Bucket)
	assert.Equal(t, "application/pdf", uploaded.ContentType)
	fileRepo.AssertExpectations(t)
}

func TestFileUpload_TextFile(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	// DetectContentType reports "text/plain; charset=utf-8" for this body;
	// the charset parameter must not break the allow-list lookup.
	input := uploadInput("notes.txt", []byte("Passport No: A1234567\nName: JOHN SMITH\n"))

	fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	fileRepo.On("UpdateStatus", mock.Anything, mock.Anything, domain.FileStatusUploaded).Return(nil)

	meta, err := svc.Upload(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.FileTypeTXT, meta.FileType)
	assert.Equal(t, "text/plain", meta.ContentType)
}

func TestFileUpload_UnsupportedExtension(t *testing.T) {
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), testS3Config())

	_, err := svc.Upload(context.Background(), uploadInput("malware.exe", []byte("MZ")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileUpload_ContentMismatch(t *testing.T) {
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), testS3Config())

	// A .pdf extension with a ZIP payload must be rejected on magic bytes.
	_, err := svc.Upload(context.Background(), uploadInput("fake.pdf", []byte("PK\x03\x04zipzipzip")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileUpload_TooLarge(t *testing.T) {
	cfg := testS3Config()
	cfg.MaxFileSizeMB = 1
	svc := service.NewFileService(new(mocks.MockFileMetaRepo), new(mocks.MockObjectStorage), cfg)

	input := uploadInput("big.pdf", pdfBytes())
	input.Header.Size = 2 * 1024 * 1024

	_, err := svc.Upload(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestFileUpload_StorageFailureMarksFailed(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	fileRepo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed).Return(nil)

	_, err := svc.Upload(context.Background(), uploadInput("passport.pdf", pdfBytes()))
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	fileRepo.AssertExpectations(t)
}

func TestGetDownloadURL(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	userID, fileID := uuid.New(), uuid.New()
	meta := &domain.FileMeta{
		ID:       fileID,
		UserID:   userID,
		S3Bucket: "visaprep-uploads",
		S3Key:    "users/a/files/b/passport.pdf",
	}

	fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(meta, nil)
	storage.On("GetPresignedURL", mock.Anything, meta.S3Bucket, meta.S3Key, int64(900)).
		Return("https://s3.example.com/presigned", nil)

	url, err := svc.GetDownloadURL(context.Background(), userID, fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/presigned", url)
}

func TestFileDelete_RemovesObjectThenRow(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	userID, fileID := uuid.New(), uuid.New()
	meta := &domain.FileMeta{ID: fileID, UserID: userID, S3Bucket: "b", S3Key: "k"}

	fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(meta, nil)
	storage.On("Delete", mock.Anything, "b", "k").Return(nil)
	fileRepo.On("Delete", mock.Anything, userID, fileID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), userID, fileID))
	fileRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestFileDelete_StorageFailureKeepsRow(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewFileService(fileRepo, storage, testS3Config())

	userID, fileID := uuid.New(), uuid.New()
	meta := &domain.FileMeta{ID: fileID, UserID: userID, S3Bucket: "b", S3Key: "k"}

	fileRepo.On("GetByID", mock.Anything, userID, fileID).Return(meta, nil)
	storage.On("Delete", mock.Anything, "b", "k").Return(errors.New("boom"))

	err := svc.Delete(context.Background(), userID, fileID)
	require.Error(t, err)
	fileRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
