package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

// CreateBatch inserts a validated question batch in one transaction. Either
// every question is persisted or none is.
func (r *QuestionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&questions).Error
	})
}

// ListByTest returns the test's questions in their stable upload order.
func (r *QuestionRepository) ListByTest(testID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("test_id = ?", testID).Order("id asc").Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) CountByTest(testID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}
