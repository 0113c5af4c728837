package services

import (
	"errors"

	"skill_barter/models"
	"skill_barter/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailTaken           = errors.New("user already exists")
	ErrInsufficientCredits  = errors.New("insufficient credits")
	ErrAlreadyUpvoted       = errors.New("already upvoted")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrStorageNotConfigured = errors.New("file storage is not configured")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrAlreadyCompleted     = errors.New("request already completed")
	ErrUploadFailed         = errors.New("file upload failed")
)

// ErrorCode 将服务层错误映射为业务错误码
func ErrorCode(err error) int {
	switch {
	case err == nil:
		return models.CodeSuccess
	case errors.Is(err, ErrUserNotFound):
		return models.CodeUserNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return models.CodeInvalidCredentials
	case errors.Is(err, ErrEmailTaken):
		return models.CodeEmailTaken
	case errors.Is(err, ErrInsufficientCredits):
		return models.CodeInsufficientCredits
	case errors.Is(err, ErrAlreadyUpvoted):
		return models.CodeAlreadyUpvoted
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return models.CodeNotFound
	case errors.Is(err, ErrForbidden):
		return models.CodeForbidden
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrAlreadyCompleted):
		return models.CodeInvalidParams
	case errors.Is(err, ErrInvalidToken):
		return models.CodeUnauthenticated
	case errors.Is(err, ErrStorageNotConfigured), errors.Is(err, ErrUploadFailed):
		return models.CodeUploadError
	default:
		return models.CodeDatabaseError
	}
}
