package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// NotAnsweredText is what the review shows for the SelectedNone sentinel.
const NotAnsweredText = "Not answered"

const reviewCacheTTL = time.Hour

type AttemptService struct {
	Tests     TestFinder
	Questions QuestionLister
	Attempts  AttemptStore
	Cache     *redis.Client // optional; reviews are immutable so they cache safely
}

func NewAttemptService(tests TestFinder, questions QuestionLister, attempts AttemptStore, cache *redis.Client) *AttemptService {
	return &AttemptService{Tests: tests, Questions: questions, Attempts: attempts, Cache: cache}
}

// SubmitAttempt scores one submission and persists the attempt together with
// exactly one response per question of the test. Selection keys are
// stringified question ids; keys that match no question are ignored, and
// questions without a key are stored with the unanswered sentinel. The write
// is atomic: either the attempt, all responses and the final score exist, or
// nothing does.
func (s *AttemptService) SubmitAttempt(testID, userID uint, selections map[string]string) (*model.Attempt, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	questions, err := s.Questions.ListByTest(testID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	score := 0
	responses := make([]model.Response, 0, len(questions))
	for _, q := range questions {
		selected := model.SelectedNone
		if raw, ok := selections[strconv.FormatUint(uint64(q.ID), 10)]; ok {
			code, err := strconv.Atoi(raw)
			if err != nil || code < model.OptionMin || code > model.OptionMax {
				return nil, fmt.Errorf("%w: question %d got %q", util.ErrInvalidSelection, q.ID, raw)
			}
			selected = code
		}

		if selected == q.Answer {
			score++
		}

		responses = append(responses, model.Response{
			QuestionID:     q.ID,
			SelectedOption: selected,
		})
	}

	attempt := &model.Attempt{TestID: testID, UserID: userID}
	if err := s.Attempts.CreateWithResponses(attempt, responses, score, test.AllowRetake); err != nil {
		return nil, err
	}

	return attempt, nil
}

// ResponseReview pairs one stored response with its question, with both the
// selected and the correct option codes resolved to text. It is a read-only
// projection; the stored numeric codes remain the source of truth.
type ResponseReview struct {
	QuestionID     uint     `json:"questionId"`
	QuestionText   string   `json:"questionText"`
	Options        []string `json:"options"`
	SelectedOption int      `json:"selectedOption"`
	SelectedText   string   `json:"selectedText"`
	CorrectOption  int      `json:"correctOption"`
	CorrectText    string   `json:"correctText"`
	Correct        bool     `json:"correct"`
}

type AttemptReview struct {
	Attempt *model.Attempt   `json:"attempt"`
	Items   []ResponseReview `json:"items"`
}

// RenderAttempt reconstructs the review for a completed attempt. Items follow
// the order the responses were stored in, and rendering never writes back to
// the attempt, response or question rows, so repeated calls return identical
// output.
func (s *AttemptService) RenderAttempt(attemptID uint) (*AttemptReview, error) {
	if cached := s.cachedReview(attemptID); cached != nil {
		return cached, nil
	}

	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	responses, err := s.Attempts.ListResponses(attemptID)
	if err != nil {
		return nil, err
	}

	questions, err := s.Questions.ListByTest(attempt.TestID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	items := make([]ResponseReview, 0, len(responses))
	for _, resp := range responses {
		q, ok := byID[resp.QuestionID]
		if !ok {
			return nil, util.ErrQuestionNotFound
		}

		selectedText := NotAnsweredText
		if text, ok := q.OptionText(resp.SelectedOption); ok {
			selectedText = text
		}
		correctText, _ := q.OptionText(q.Answer)

		items = append(items, ResponseReview{
			QuestionID:     q.ID,
			QuestionText:   q.QuestionText,
			Options:        []string{q.Option1, q.Option2, q.Option3, q.Option4},
			SelectedOption: resp.SelectedOption,
			SelectedText:   selectedText,
			CorrectOption:  q.Answer,
			CorrectText:    correctText,
			Correct:        resp.SelectedOption == q.Answer,
		})
	}

	review := &AttemptReview{Attempt: attempt, Items: items}
	s.cacheReview(attemptID, review)

	return review, nil
}

// ListAttempts returns every attempt for a test, newest first.
func (s *AttemptService) ListAttempts(testID uint) ([]model.Attempt, error) {
	if _, err := s.Tests.FindByID(testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return s.Attempts.ListByTest(testID)
}

// ListUserAttempts returns one test-taker's attempts for a test, newest first.
func (s *AttemptService) ListUserAttempts(testID, userID uint) ([]model.Attempt, error) {
	if _, err := s.Tests.FindByID(testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return s.Attempts.ListByTestAndUser(testID, userID)
}

func reviewCacheKey(attemptID uint) string {
	return fmt.Sprintf("attempt:review:%d", attemptID)
}

func (s *AttemptService) cachedReview(attemptID uint) *AttemptReview {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(context.Background(), reviewCacheKey(attemptID)).Bytes()
	if err != nil {
		return nil
	}
	var review AttemptReview
	if err := json.Unmarshal(raw, &review); err != nil {
		return nil
	}
	return &review
}

func (s *AttemptService) cacheReview(attemptID uint, review *AttemptReview) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(review)
	if err != nil {
		return
	}
	s.Cache.Set(context.Background(), reviewCacheKey(attemptID), raw, reviewCacheTTL)
}
