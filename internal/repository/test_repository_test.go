package repository

import (
	"quizhub_backend/internal/model"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                           logger.Default.LogMode(logger.Silent),
		IgnoreRelationshipsWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Test{}, &model.Question{}, &model.Attempt{}, &model.Response{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTestWithAttempt(t *testing.T, db *gorm.DB) *model.Test {
	t.Helper()

	test := &model.Test{Title: "Basics", AuthorID: 1}
	if err := db.Create(test).Error; err != nil {
		t.Fatalf("create test: %v", err)
	}

	questions := []model.Question{
		{TestID: test.ID, QuestionText: "q1", Option1: "a", Option2: "b", Option3: "c", Option4: "d", Answer: 1},
		{TestID: test.ID, QuestionText: "q2", Option1: "a", Option2: "b", Option3: "c", Option4: "d", Answer: 2},
	}
	if err := db.Create(&questions).Error; err != nil {
		t.Fatalf("create questions: %v", err)
	}

	attempt := &model.Attempt{TestID: test.ID, UserID: 1, Score: 1}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	responses := []model.Response{
		{AttemptID: attempt.ID, QuestionID: questions[0].ID, SelectedOption: 1},
		{AttemptID: attempt.ID, QuestionID: questions[1].ID, SelectedOption: model.SelectedNone},
	}
	if err := db.Create(&responses).Error; err != nil {
		t.Fatalf("create responses: %v", err)
	}

	return test
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewTestRepository(db)
	test := seedTestWithAttempt(t, db)

	if err := repo.Delete(test.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	counts := map[string]interface{}{
		"tests":     &model.Test{},
		"questions": &model.Question{},
		"attempts":  &model.Attempt{},
		"responses": &model.Response{},
	}
	for name, m := range counts {
		var n int64
		if err := db.Model(m).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if n != 0 {
			t.Errorf("%s left behind after delete: %d rows", name, n)
		}
	}
}

func TestDeleteRollsBackOnAttemptLookupFailure(t *testing.T) {
	db := newTestDB(t)
	repo := NewTestRepository(db)
	test := seedTestWithAttempt(t, db)

	// Break the attempt-id lookup mid-transaction.
	if err := db.Migrator().DropTable(&model.Attempt{}); err != nil {
		t.Fatalf("drop attempts: %v", err)
	}

	if err := repo.Delete(test.ID); err == nil {
		t.Fatal("Delete succeeded although the attempt lookup failed")
	}

	// The whole transaction must have rolled back.
	if _, err := repo.FindByID(test.ID); err != nil {
		t.Errorf("test row gone after failed delete: %v", err)
	}
	var questions int64
	if err := db.Model(&model.Question{}).Where("test_id = ?", test.ID).Count(&questions).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if questions != 2 {
		t.Errorf("questions = %d after failed delete, want 2", questions)
	}
}
