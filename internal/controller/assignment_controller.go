package controller

import (
	"homeschool_hub_backend/internal/service"
	"homeschool_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	SubmissionService *service.SubmissionService
}

func NewAssignmentController(assignmentService *service.AssignmentService, submissionService *service.SubmissionService) *AssignmentController {
	return &AssignmentController{
		AssignmentService: assignmentService,
		SubmissionService: submissionService,
	}
}

// Generate answers 201 even when the AI failed; the fallback flag on the
// assignment tells the teacher.
func (c *AssignmentController) Generate(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Generate(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

func (c *AssignmentController) Regenerate(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	assignment, err := c.AssignmentService.Regenerate(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

func (c *AssignmentController) List(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.AssignmentService.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

func (c *AssignmentController) Get(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	assignment, err := c.AssignmentService.Get(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// RawOutput serves the archived model text of a fallback assignment.
func (c *AssignmentController) RawOutput(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	raw, err := c.AssignmentService.RawOutput(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"assignmentId": ctx.Param("id"), "raw": raw})
}

func (c *AssignmentController) Delete(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.AssignmentService.Delete(ctx.Request.Context(), user.UserID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}

func (c *AssignmentController) Assign(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AssignmentService.Assign(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

func (c *AssignmentController) ListForStudent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	views, err := c.AssignmentService.ListForStudent(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

func (c *AssignmentController) Submit(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.SubmissionService.Submit(ctx.Request.Context(), req.StudentAssignmentID, user.UserID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
