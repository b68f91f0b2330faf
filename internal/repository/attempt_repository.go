package repository

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateWithResponses persists an attempt and its responses as one unit:
// the attempt row is created first (score 0) so the responses can reference
// its id, the responses are batch-inserted, then the score is finalized.
// Everything runs in a single transaction; a failure at any step leaves no
// partial attempt behind. When allowRetake is false, an existing attempt for
// the same (test, user) aborts the transaction before any write, which also
// serializes two near-simultaneous submissions.
func (r *AttemptRepository) CreateWithResponses(attempt *model.Attempt, responses []model.Response, score int, allowRetake bool) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if !allowRetake {
			var count int64
			if err := tx.Model(&model.Attempt{}).
				Where("test_id = ? AND user_id = ?", attempt.TestID, attempt.UserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return util.ErrRetakeNotAllowed
			}
		}

		attempt.Score = 0
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		for i := range responses {
			responses[i].AttemptID = attempt.ID
		}
		if len(responses) > 0 {
			if err := tx.Create(&responses).Error; err != nil {
				return err
			}
		}

		attempt.Score = score
		return tx.Model(attempt).Update("score", score).Error
	})
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.First(&attempt, id).Error
	return &attempt, err
}

func (r *AttemptRepository) ListByTest(testID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("test_id = ?", testID).Order("created_at desc").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByTestAndUser(testID, userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("test_id = ? AND user_id = ?", testID, userID).Order("created_at desc").Find(&attempts).Error
	return attempts, err
}

// ListResponses returns an attempt's responses in insertion order.
func (r *AttemptRepository) ListResponses(attemptID uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.DB.Where("attempt_id = ?", attemptID).Order("id asc").Find(&responses).Error
	return responses, err
}
