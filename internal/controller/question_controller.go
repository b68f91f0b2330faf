package controller

import (
	"errors"
	"net/http"
	"path/filepath"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Imports *service.ImportService
	Tests   *service.TestService
	Cfg     *config.Config
}

func NewQuestionController(imports *service.ImportService, tests *service.TestService, cfg *config.Config) *QuestionController {
	return &QuestionController{Imports: imports, Tests: tests, Cfg: cfg}
}

// @Summary Bulk upload questions from a CSV file
// @Description CSV with header row, columns: question_text, option1..option4, answer (1-4). All-or-nothing: any bad row rejects the whole file.
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Param file formData file true "question CSV"
// @Success 201 {object} util.Response
// @Router /teacher/tests/{id}/questions/upload [post]
func (c *QuestionController) UploadQuestions(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "no file in upload")
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		util.BadRequest(ctx, "please upload a .csv file")
		return
	}

	maxBytes := int64(c.Cfg.Upload.MaxSizeMB) << 20
	if fileHeader.Size > maxBytes {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	inserted, rowErrs, err := c.Imports.LoadQuestions(testID, file)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidUpload):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if len(rowErrs) > 0 {
		ctx.JSON(http.StatusBadRequest, util.Response{
			Code:    http.StatusBadRequest,
			Message: "invalid upload: no questions were inserted",
			Data:    gin.H{"rowErrors": rowErrs},
		})
		return
	}

	util.Created(ctx, gin.H{"inserted": inserted})
}

// @Summary Add a single question to a test
// @Tags questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Param body body service.QuestionReq true "question"
// @Success 201 {object} util.Response
// @Router /teacher/tests/{id}/questions [post]
func (c *QuestionController) AddQuestion(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Imports.AddQuestion(testID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidQuestion):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, question)
}

// @Summary Questions for taking a test (no answer codes)
// @Tags questions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /tests/{id}/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	questions, err := c.Tests.StudentQuestions(testID)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"questions": questions})
}
