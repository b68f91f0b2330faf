package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrNoQuestions      = errors.New("test has no questions")
	ErrRetakeNotAllowed = errors.New("retake not allowed for this test")
	ErrInvalidSelection = errors.New("invalid selected option")
	ErrInvalidUpload    = errors.New("invalid upload")
	ErrInvalidQuestion  = errors.New("invalid question")
)
