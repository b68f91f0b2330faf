package service

import (
	"quizhub_backend/internal/model"
)

// Narrow store interfaces consumed by the import and attempt services. The
// GORM repositories satisfy them; tests use in-memory fakes.

type TestFinder interface {
	FindByID(id uint) (*model.Test, error)
}

type TestStore interface {
	TestFinder
	Update(test *model.Test) error
}

type QuestionWriter interface {
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) error
}

type QuestionLister interface {
	ListByTest(testID uint) ([]model.Question, error)
}

type AttemptStore interface {
	CreateWithResponses(attempt *model.Attempt, responses []model.Response, score int, allowRetake bool) error
	FindByID(id uint) (*model.Attempt, error)
	ListByTest(testID uint) ([]model.Attempt, error)
	ListByTestAndUser(testID, userID uint) ([]model.Attempt, error)
	ListResponses(attemptID uint) ([]model.Response, error)
}
