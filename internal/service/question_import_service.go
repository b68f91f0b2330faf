package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionCSVColumns is the bulk upload contract: one header row (discarded),
// then exactly these columns per row. The answer column is a string-encoded
// integer in 1-4.
var QuestionCSVColumns = []string{"question_text", "option1", "option2", "option3", "option4", "answer"}

// RowError describes one rejected upload row. Row is the 1-based index of the
// data row (the header is not counted).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportService struct {
	Tests     TestStore
	Questions QuestionWriter
	Storage   StorageProvider // optional; accepted uploads are archived when set
}

func NewImportService(tests TestStore, questions QuestionWriter, storage StorageProvider) *ImportService {
	return &ImportService{Tests: tests, Questions: questions, Storage: storage}
}

// LoadQuestions ingests a CSV question set for a test. The whole file is
// validated before anything is written: any malformed row rejects the entire
// batch (inserted = 0, the row errors describe why) and a clean batch is
// inserted in one transaction.
func (s *ImportService) LoadQuestions(testID uint, r io.Reader) (int, []RowError, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, util.ErrTestNotFound
		}
		return 0, nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", util.ErrInvalidUpload, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return 0, nil, fmt.Errorf("%w: empty file", util.ErrInvalidUpload)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1 // field count is validated per row below
	records, err := reader.ReadAll()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", util.ErrInvalidUpload, err)
	}
	if len(records) < 2 {
		return 0, nil, fmt.Errorf("%w: no question rows after header", util.ErrInvalidUpload)
	}

	rows := records[1:] // header row is discarded

	var rowErrs []RowError
	questions := make([]model.Question, 0, len(rows))
	for i, row := range rows {
		q, reason := parseQuestionRow(testID, row)
		if reason != "" {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Reason: reason})
			continue
		}
		questions = append(questions, q)
	}

	if len(rowErrs) > 0 {
		return 0, rowErrs, nil
	}

	if err := s.Questions.CreateBatch(questions); err != nil {
		return 0, nil, err
	}

	if name := s.archive(testID, raw); name != "" {
		test.ArchivePath = name
		_ = s.Tests.Update(test)
	}

	return len(questions), nil, nil
}

// QuestionReq is one hand-entered question, as opposed to a bulk CSV row.
type QuestionReq struct {
	QuestionText string `json:"questionText" binding:"required"`
	Option1      string `json:"option1" binding:"required"`
	Option2      string `json:"option2" binding:"required"`
	Option3      string `json:"option3" binding:"required"`
	Option4      string `json:"option4" binding:"required"`
	Answer       int    `json:"answer" binding:"required"`
}

// AddQuestion appends a single question to a test, validated the same way a
// CSV row would be.
func (s *ImportService) AddQuestion(testID uint, req QuestionReq) (*model.Question, error) {
	if _, err := s.Tests.FindByID(testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	row := []string{req.QuestionText, req.Option1, req.Option2, req.Option3, req.Option4, strconv.Itoa(req.Answer)}
	question, reason := parseQuestionRow(testID, row)
	if reason != "" {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidQuestion, reason)
	}

	if err := s.Questions.Create(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

func parseQuestionRow(testID uint, row []string) (model.Question, string) {
	if len(row) != len(QuestionCSVColumns) {
		return model.Question{}, fmt.Sprintf("expected %d fields, got %d", len(QuestionCSVColumns), len(row))
	}

	for i := 0; i < 5; i++ {
		if strings.TrimSpace(row[i]) == "" {
			return model.Question{}, fmt.Sprintf("field %q must not be empty", QuestionCSVColumns[i])
		}
	}

	answer, err := strconv.Atoi(strings.TrimSpace(row[5]))
	if err != nil {
		return model.Question{}, fmt.Sprintf("answer %q is not an integer", row[5])
	}
	if answer < model.OptionMin || answer > model.OptionMax {
		return model.Question{}, fmt.Sprintf("answer %d is outside %d-%d", answer, model.OptionMin, model.OptionMax)
	}

	return model.Question{
		TestID:       testID,
		QuestionText: row[0],
		Option1:      row[1],
		Option2:      row[2],
		Option3:      row[3],
		Option4:      row[4],
		Answer:       answer,
	}, ""
}

// archive keeps the accepted upload in object storage for audit and returns
// its object key. Best effort: the questions are already committed, an
// archive failure does not undo them.
func (s *ImportService) archive(testID uint, raw []byte) string {
	if s.Storage == nil {
		return ""
	}
	name := fmt.Sprintf("uploads/%d/%s.csv", testID, uuid.New().String())
	if _, err := s.Storage.Upload(context.Background(), name, bytes.NewReader(raw), int64(len(raw)), util.MimeCSV); err != nil {
		return ""
	}
	return name
}
