package controller

import (
	"errors"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

type SubmitAttemptReq struct {
	// Answers maps stringified question ids to selected option codes ("1"-"4").
	// Questions missing from the map are recorded as unanswered.
	Answers map[string]string `json:"answers"`
}

// @Summary Submit a test attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Param body body SubmitAttemptReq true "selected options keyed by question id"
// @Success 201 {object} util.Response
// @Router /tests/{id}/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	testID := util.MustParseUint(ctx.Param("id"))

	var req SubmitAttemptReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.SubmitAttempt(testID, user.UserID, req.Answers)
	if err != nil {
		monitoring.AttemptCounter.WithLabelValues("rejected").Inc()
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoQuestions):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidSelection):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrRetakeNotAllowed):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.AttemptCounter.WithLabelValues("scored").Inc()
	util.Created(ctx, attempt)
}

// @Summary Review a completed attempt
// @Description Each item resolves the selected and correct option codes to their text.
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response
// @Router /attempts/{id} [get]
func (c *AttemptController) GetReview(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	review, err := c.Service.RenderAttempt(id)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, review)
}

// @Summary All attempts for a test (author overview)
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /teacher/tests/{id}/attempts [get]
func (c *AttemptController) ListTestAttempts(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	attempts, err := c.Service.ListAttempts(testID)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attempts": attempts})
}

// @Summary The caller's previous attempts for a test
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /tests/{id}/my-attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	testID := util.MustParseUint(ctx.Param("id"))

	attempts, err := c.Service.ListUserAttempts(testID, user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attempts": attempts})
}
