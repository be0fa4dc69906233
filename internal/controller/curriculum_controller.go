package controller

import (
	"homeschool_hub_backend/internal/service"
	"homeschool_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CurriculumController groups the teacher's planning tools: lesson plans,
// spelling lists and the gradebook.
type CurriculumController struct {
	LessonPlanService   *service.LessonPlanService
	SpellingListService *service.SpellingListService
	GradebookService    *service.GradebookService
}

func NewCurriculumController(
	lessonPlanService *service.LessonPlanService,
	spellingListService *service.SpellingListService,
	gradebookService *service.GradebookService,
) *CurriculumController {
	return &CurriculumController{
		LessonPlanService:   lessonPlanService,
		SpellingListService: spellingListService,
		GradebookService:    gradebookService,
	}
}

func (c *CurriculumController) GenerateLessonPlan(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.LessonPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.LessonPlanService.Generate(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, plan)
}

func (c *CurriculumController) ListLessonPlans(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	plans, err := c.LessonPlanService.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plans)
}

func (c *CurriculumController) CreateSpellingList(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.SpellingListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	list, err := c.SpellingListService.Create(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, list)
}

func (c *CurriculumController) ListSpellingLists(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	lists, err := c.SpellingListService.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lists)
}

func (c *CurriculumController) GetSpellingList(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.SpellingListService.Get(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

func (c *CurriculumController) UpdateSpellingList(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.SpellingListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	list, err := c.SpellingListService.Update(ctx.Request.Context(), user.UserID, ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

func (c *CurriculumController) DeleteSpellingList(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.SpellingListService.Delete(ctx.Request.Context(), user.UserID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}

func (c *CurriculumController) Gradebook(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	rows, err := c.GradebookService.Gradebook(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
