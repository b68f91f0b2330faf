package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.First(&test, id).Error
	return &test, err
}

func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Save(test).Error
}

type TestListRow struct {
	model.Test
	QuestionCount int `json:"questionCount"`
	AttemptCount  int `json:"attemptCount"`
}

func (r *TestRepository) List() ([]TestListRow, error) {
	var tests []TestListRow
	err := r.DB.Table("tests t").
		Select("t.*, " +
			"(SELECT COUNT(*) FROM questions q WHERE q.test_id = t.id AND q.deleted_at IS NULL) as question_count, " +
			"(SELECT COUNT(*) FROM attempts a WHERE a.test_id = t.id AND a.deleted_at IS NULL) as attempt_count").
		Where("t.deleted_at IS NULL").
		Order("t.created_at desc").
		Scan(&tests).Error
	return tests, err
}

// Delete removes a test with its questions, attempts and responses in one
// transaction.
func (r *TestRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		var attemptIDs []uint
		if err := tx.Model(&model.Attempt{}).Where("test_id = ?", id).Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}
		if len(attemptIDs) > 0 {
			if err := tx.Where("attempt_id IN ?", attemptIDs).Delete(&model.Response{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Test{}, id).Error
	})
}
