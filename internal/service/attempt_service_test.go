package service

import (
	"errors"
	"fmt"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"reflect"
	"testing"

	"gorm.io/gorm"
)

// In-memory fakes for the narrow store interfaces.

type fakeTests struct {
	tests map[uint]*model.Test
}

func (f *fakeTests) FindByID(id uint) (*model.Test, error) {
	t, ok := f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeTests) Update(test *model.Test) error {
	if _, ok := f.tests[test.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.tests[test.ID] = test
	return nil
}

type fakeQuestions struct {
	byTest map[uint][]model.Question
}

func (f *fakeQuestions) ListByTest(testID uint) ([]model.Question, error) {
	return f.byTest[testID], nil
}

type fakeAttempts struct {
	nextID    uint
	attempts  map[uint]*model.Attempt
	responses map[uint][]model.Response
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{
		nextID:    1,
		attempts:  make(map[uint]*model.Attempt),
		responses: make(map[uint][]model.Response),
	}
}

func (f *fakeAttempts) CreateWithResponses(attempt *model.Attempt, responses []model.Response, score int, allowRetake bool) error {
	if !allowRetake {
		for _, a := range f.attempts {
			if a.TestID == attempt.TestID && a.UserID == attempt.UserID {
				return util.ErrRetakeNotAllowed
			}
		}
	}
	attempt.ID = f.nextID
	f.nextID++
	attempt.Score = score
	stored := make([]model.Response, len(responses))
	copy(stored, responses)
	for i := range stored {
		stored[i].AttemptID = attempt.ID
	}
	copied := *attempt
	f.attempts[attempt.ID] = &copied
	f.responses[attempt.ID] = stored
	return nil
}

func (f *fakeAttempts) FindByID(id uint) (*model.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAttempts) ListByTest(testID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for id := f.nextID; id >= 1; id-- {
		if a, ok := f.attempts[id]; ok && a.TestID == testID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttempts) ListByTestAndUser(testID, userID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for id := f.nextID; id >= 1; id-- {
		if a, ok := f.attempts[id]; ok && a.TestID == testID && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttempts) ListResponses(attemptID uint) ([]model.Response, error) {
	return f.responses[attemptID], nil
}

func question(id, testID uint, text string, answer int) model.Question {
	q := model.Question{
		TestID:       testID,
		QuestionText: text,
		Option1:      text + " A",
		Option2:      text + " B",
		Option3:      text + " C",
		Option4:      text + " D",
		Answer:       answer,
	}
	q.ID = id
	return q
}

func newAttemptService(allowRetake bool, questions ...model.Question) (*AttemptService, *fakeAttempts) {
	test := &model.Test{Title: "Basics", AllowRetake: allowRetake}
	test.ID = 1
	attempts := newFakeAttempts()
	svc := NewAttemptService(
		&fakeTests{tests: map[uint]*model.Test{1: test}},
		&fakeQuestions{byTest: map[uint][]model.Question{1: questions}},
		attempts,
		nil,
	)
	return svc, attempts
}

func TestSubmitAttemptScoring(t *testing.T) {
	tests := []struct {
		name       string
		answers    []int
		selections map[string]string
		wantScore  int
	}{
		{
			name:       "one of two correct",
			answers:    []int{1, 2},
			selections: map[string]string{"1": "1", "2": "3"},
			wantScore:  1,
		},
		{
			name:       "all correct",
			answers:    []int{3, 4, 1},
			selections: map[string]string{"1": "3", "2": "4", "3": "1"},
			wantScore:  3,
		},
		{
			name:       "all wrong",
			answers:    []int{1, 1},
			selections: map[string]string{"1": "2", "2": "2"},
			wantScore:  0,
		},
		{
			name:       "unanswered question scores zero",
			answers:    []int{1, 2},
			selections: map[string]string{"1": "1"},
			wantScore:  1,
		},
		{
			name:       "unknown keys are ignored",
			answers:    []int{1},
			selections: map[string]string{"1": "1", "999": "4", "bogus": "2"},
			wantScore:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := make([]model.Question, 0, len(tc.answers))
			for i, ans := range tc.answers {
				questions = append(questions, question(uint(i+1), 1, fmt.Sprintf("q%d", i+1), ans))
			}
			svc, store := newAttemptService(true, questions...)

			attempt, err := svc.SubmitAttempt(1, 7, tc.selections)
			if err != nil {
				t.Fatalf("SubmitAttempt: %v", err)
			}
			if attempt.Score != tc.wantScore {
				t.Errorf("score = %d, want %d", attempt.Score, tc.wantScore)
			}

			responses, _ := store.ListResponses(attempt.ID)
			if len(responses) != len(questions) {
				t.Errorf("stored %d responses, want one per question (%d)", len(responses), len(questions))
			}
		})
	}
}

func TestSubmitAttemptUnansweredSentinel(t *testing.T) {
	svc, store := newAttemptService(true,
		question(1, 1, "q1", 1),
		question(2, 1, "q2", 2),
	)

	attempt, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "1"})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	responses, _ := store.ListResponses(attempt.ID)
	if got := responses[1].SelectedOption; got != model.SelectedNone {
		t.Errorf("unanswered response stored %d, want SelectedNone (%d)", got, model.SelectedNone)
	}
	if responses[1].Answered() {
		t.Error("Answered() = true for an unanswered response")
	}
}

func TestSubmitAttemptInvalidSelection(t *testing.T) {
	for _, raw := range []string{"0", "5", "-1", "abc", ""} {
		t.Run(raw, func(t *testing.T) {
			svc, store := newAttemptService(true, question(1, 1, "q1", 1))

			_, err := svc.SubmitAttempt(1, 7, map[string]string{"1": raw})
			if !errors.Is(err, util.ErrInvalidSelection) {
				t.Fatalf("err = %v, want ErrInvalidSelection", err)
			}
			if len(store.attempts) != 0 {
				t.Error("rejected submission must not persist an attempt")
			}
		})
	}
}

func TestSubmitAttemptErrors(t *testing.T) {
	t.Run("unknown test", func(t *testing.T) {
		svc, _ := newAttemptService(true, question(1, 1, "q1", 1))
		_, err := svc.SubmitAttempt(42, 7, nil)
		if !errors.Is(err, util.ErrTestNotFound) {
			t.Fatalf("err = %v, want ErrTestNotFound", err)
		}
	})

	t.Run("test without questions", func(t *testing.T) {
		svc, _ := newAttemptService(true)
		_, err := svc.SubmitAttempt(1, 7, map[string]string{})
		if !errors.Is(err, util.ErrNoQuestions) {
			t.Fatalf("err = %v, want ErrNoQuestions", err)
		}
	})
}

func TestSubmitAttemptRetakePolicy(t *testing.T) {
	t.Run("retake allowed", func(t *testing.T) {
		svc, store := newAttemptService(true, question(1, 1, "q1", 1))
		for i := 0; i < 2; i++ {
			if _, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "1"}); err != nil {
				t.Fatalf("submission %d: %v", i+1, err)
			}
		}
		if len(store.attempts) != 2 {
			t.Errorf("stored %d attempts, want 2", len(store.attempts))
		}
	})

	t.Run("retake denied", func(t *testing.T) {
		svc, store := newAttemptService(false, question(1, 1, "q1", 1))
		if _, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "1"}); err != nil {
			t.Fatalf("first submission: %v", err)
		}
		_, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "2"})
		if !errors.Is(err, util.ErrRetakeNotAllowed) {
			t.Fatalf("err = %v, want ErrRetakeNotAllowed", err)
		}
		if len(store.attempts) != 1 {
			t.Errorf("stored %d attempts, want 1", len(store.attempts))
		}
	})

	t.Run("other users unaffected", func(t *testing.T) {
		svc, _ := newAttemptService(false, question(1, 1, "q1", 1))
		if _, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "1"}); err != nil {
			t.Fatalf("user 7: %v", err)
		}
		if _, err := svc.SubmitAttempt(1, 8, map[string]string{"1": "1"}); err != nil {
			t.Fatalf("user 8: %v", err)
		}
	})
}

func TestRenderAttempt(t *testing.T) {
	svc, _ := newAttemptService(true,
		question(1, 1, "q1", 1),
		question(2, 1, "q2", 2),
		question(3, 1, "q3", 3),
	)

	attempt, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "1", "2": "4"})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	review, err := svc.RenderAttempt(attempt.ID)
	if err != nil {
		t.Fatalf("RenderAttempt: %v", err)
	}
	if len(review.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(review.Items))
	}

	for i, wantID := range []uint{1, 2, 3} {
		if review.Items[i].QuestionID != wantID {
			t.Errorf("item %d question = %d, want %d (stored order)", i, review.Items[i].QuestionID, wantID)
		}
	}

	correct := review.Items[0]
	if !correct.Correct || correct.SelectedText != "q1 A" || correct.CorrectText != "q1 A" {
		t.Errorf("correct item rendered wrong: %+v", correct)
	}

	wrong := review.Items[1]
	if wrong.Correct || wrong.SelectedText != "q2 D" || wrong.CorrectText != "q2 B" {
		t.Errorf("wrong item rendered wrong: %+v", wrong)
	}

	unanswered := review.Items[2]
	if unanswered.SelectedOption != model.SelectedNone || unanswered.SelectedText != NotAnsweredText {
		t.Errorf("unanswered item rendered wrong: %+v", unanswered)
	}
	if unanswered.Correct {
		t.Error("unanswered item must not count as correct")
	}

	again, err := svc.RenderAttempt(attempt.ID)
	if err != nil {
		t.Fatalf("second RenderAttempt: %v", err)
	}
	if !reflect.DeepEqual(review.Items, again.Items) {
		t.Error("repeated rendering changed the review")
	}
}

func TestRenderAttemptNotFound(t *testing.T) {
	svc, _ := newAttemptService(true, question(1, 1, "q1", 1))
	_, err := svc.RenderAttempt(99)
	if !errors.Is(err, util.ErrAttemptNotFound) {
		t.Fatalf("err = %v, want ErrAttemptNotFound", err)
	}
}

func TestListUserAttemptsScoping(t *testing.T) {
	svc, _ := newAttemptService(true, question(1, 1, "q1", 1))

	if _, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitAttempt(1, 8, map[string]string{"1": "2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitAttempt(1, 7, map[string]string{"1": "1"}); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListUserAttempts(1, 7)
	if err != nil {
		t.Fatalf("ListUserAttempts: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("got %d attempts for user 7, want 2", len(mine))
	}
	for _, a := range mine {
		if a.UserID != 7 {
			t.Errorf("attempt %d belongs to user %d", a.ID, a.UserID)
		}
	}

	all, err := svc.ListAttempts(1)
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d attempts total, want 3", len(all))
	}

	if _, err := svc.ListUserAttempts(42, 7); !errors.Is(err, util.ErrTestNotFound) {
		t.Errorf("unknown test err = %v, want ErrTestNotFound", err)
	}
}
