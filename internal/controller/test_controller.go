package controller

import (
	"errors"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	Service *service.TestService
}

func NewTestController(svc *service.TestService) *TestController {
	return &TestController{Service: svc}
}

// @Summary Create a test
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TestReq true "test"
// @Success 201 {object} util.Response
// @Router /teacher/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.CreateTest(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, test)
}

// @Summary Update a test's title, description or retake policy
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Param body body service.TestReq true "test"
// @Success 200 {object} util.Response
// @Router /teacher/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.UpdateTest(id, user.UserID, user.Role, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, test)
}

// @Summary List tests with question and attempt counts
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	tests, err := c.Service.ListTests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": tests})
}

// @Summary Test detail with its attempt list
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	detail, err := c.Service.GetTestDetail(id)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary Delete a test with its questions and attempts
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /teacher/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	if err := c.Service.DeleteTest(id, user.UserID, user.Role); err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Answer key for a test (author only)
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /teacher/tests/{id}/answers [get]
func (c *TestController) GetAnswerKey(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	questions, err := c.Service.AnswerKey(id, user.UserID, user.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"questions": questions})
}
