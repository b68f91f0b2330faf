package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T, storage StorageProvider) (*TestService, *gorm.DB) {
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

	svc := NewTestService(
		repository.NewTestRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAttemptRepository(db),
		storage,
	)
	return svc, db
}

func TestUpdateTest(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.CreateTest(7, TestReq{Title: "Basics"})
	if err != nil {
		t.Fatalf("CreateTest: %v", err)
	}

	updated, err := svc.UpdateTest(created.ID, 7, model.Teacher, TestReq{
		Title:       "Basics v2",
		Description: "revised",
		AllowRetake: true,
	})
	if err != nil {
		t.Fatalf("UpdateTest: %v", err)
	}
	if updated.Title != "Basics v2" || !updated.AllowRetake {
		t.Errorf("update not applied: %+v", updated)
	}

	reloaded, err := svc.Tests.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Title != "Basics v2" || reloaded.Description != "revised" || !reloaded.AllowRetake {
		t.Errorf("update not persisted: %+v", reloaded)
	}
}

func TestUpdateTestPermissions(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.CreateTest(7, TestReq{Title: "Basics"})
	if err != nil {
		t.Fatalf("CreateTest: %v", err)
	}

	if _, err := svc.UpdateTest(created.ID, 8, model.Teacher, TestReq{Title: "hijacked"}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("non-author err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.UpdateTest(created.ID, 8, model.Admin, TestReq{Title: "moderated"}); err != nil {
		t.Errorf("admin update failed: %v", err)
	}
	if _, err := svc.UpdateTest(99, 7, model.Teacher, TestReq{Title: "x"}); !errors.Is(err, util.ErrTestNotFound) {
		t.Errorf("unknown test err = %v, want ErrTestNotFound", err)
	}
}

func TestDeleteTestDropsUploadArchive(t *testing.T) {
	storage := newFakeStorage()
	svc, db := newTestService(t, storage)

	created, err := svc.CreateTest(7, TestReq{Title: "Basics"})
	if err != nil {
		t.Fatalf("CreateTest: %v", err)
	}
	created.ArchivePath = "uploads/1/archive.csv"
	if err := svc.Tests.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	storage.objects[created.ArchivePath] = []byte("csv")

	if err := svc.DeleteTest(created.ID, 7, model.Teacher); err != nil {
		t.Fatalf("DeleteTest: %v", err)
	}

	if len(storage.deleted) != 1 || storage.deleted[0] != "uploads/1/archive.csv" {
		t.Errorf("archive not dropped with its test: deleted=%v", storage.deleted)
	}
	var n int64
	if err := db.Model(&model.Test{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("test row still present after delete")
	}
}

func TestDeleteTestWithoutArchive(t *testing.T) {
	storage := newFakeStorage()
	svc, _ := newTestService(t, storage)

	created, err := svc.CreateTest(7, TestReq{Title: "Basics"})
	if err != nil {
		t.Fatalf("CreateTest: %v", err)
	}

	if err := svc.DeleteTest(created.ID, 7, model.Teacher); err != nil {
		t.Fatalf("DeleteTest: %v", err)
	}
	if len(storage.deleted) != 0 {
		t.Errorf("no archive existed but storage deletes happened: %v", storage.deleted)
	}
}
