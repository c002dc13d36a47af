package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserInactive          = errors.New("user is inactive")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrFileNotFound          = errors.New("file not found")
	ErrDocumentAlreadyExists = errors.New("a document already exists for this file")
	ErrNoDocumentText        = errors.New("document has no extractable text")
	ErrExtractionIncomplete  = errors.New("document extraction has not completed")
)
