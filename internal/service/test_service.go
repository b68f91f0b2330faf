package service

import (
	"context"
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type TestService struct {
	Tests     *repository.TestRepository
	Questions *repository.QuestionRepository
	Attempts  *repository.AttemptRepository
	Storage   StorageProvider // optional; used to drop upload archives with their test
}

func NewTestService(tests *repository.TestRepository, questions *repository.QuestionRepository, attempts *repository.AttemptRepository, storage StorageProvider) *TestService {
	return &TestService{Tests: tests, Questions: questions, Attempts: attempts, Storage: storage}
}

type TestReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AllowRetake bool   `json:"allowRetake"`
}

func (s *TestService) CreateTest(authorID uint, req TestReq) (*model.Test, error) {
	test := &model.Test{
		Title:       req.Title,
		Description: req.Description,
		AllowRetake: req.AllowRetake,
		AuthorID:    authorID,
	}
	if err := s.Tests.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

// UpdateTest lets the author (or an admin) change a test's metadata. The
// question set is managed through the import endpoints, not here.
func (s *TestService) UpdateTest(testID, requesterID uint, role model.UserRole, req TestReq) (*model.Test, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	if test.AuthorID != requesterID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	test.Title = req.Title
	test.Description = req.Description
	test.AllowRetake = req.AllowRetake
	if err := s.Tests.Update(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) ListTests() ([]repository.TestListRow, error) {
	return s.Tests.List()
}

type TestDetail struct {
	Test          *model.Test     `json:"test"`
	QuestionCount int64           `json:"questionCount"`
	HasQuestions  bool            `json:"hasQuestions"`
	Attempts      []model.Attempt `json:"attempts"`
}

func (s *TestService) GetTestDetail(testID uint) (*TestDetail, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	count, err := s.Questions.CountByTest(testID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.Attempts.ListByTest(testID)
	if err != nil {
		return nil, err
	}

	return &TestDetail{
		Test:          test,
		QuestionCount: count,
		HasQuestions:  count > 0,
		Attempts:      attempts,
	}, nil
}

func (s *TestService) DeleteTest(testID, requesterID uint, role model.UserRole) error {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTestNotFound
		}
		return err
	}

	if test.AuthorID != requesterID && role != model.Admin {
		return util.ErrPermissionDenied
	}

	if err := s.Tests.Delete(testID); err != nil {
		return err
	}

	// The rows are gone; dropping the upload archive is best effort.
	if s.Storage != nil && test.ArchivePath != "" {
		_ = s.Storage.Delete(context.Background(), test.ArchivePath)
	}
	return nil
}

// StudentQuestion is the question view served to test-takers. It carries no
// answer code.
type StudentQuestion struct {
	ID           uint   `json:"id"`
	QuestionText string `json:"questionText"`
	Option1      string `json:"option1"`
	Option2      string `json:"option2"`
	Option3      string `json:"option3"`
	Option4      string `json:"option4"`
}

func (s *TestService) StudentQuestions(testID uint) ([]StudentQuestion, error) {
	if _, err := s.Tests.FindByID(testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	qs, err := s.Questions.ListByTest(testID)
	if err != nil {
		return nil, err
	}

	out := make([]StudentQuestion, len(qs))
	for i, q := range qs {
		out[i] = StudentQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Option1:      q.Option1,
			Option2:      q.Option2,
			Option3:      q.Option3,
			Option4:      q.Option4,
		}
	}
	return out, nil
}

// AnswerKey returns the full question records including answer codes, for the
// author's answer view.
func (s *TestService) AnswerKey(testID, requesterID uint, role model.UserRole) ([]model.Question, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	if test.AuthorID != requesterID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	return s.Questions.ListByTest(testID)
}
