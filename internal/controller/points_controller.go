package controller

import (
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/service"
	"homeschool_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// PointsController serves the points ledger and the rewards catalogue.
type PointsController struct {
	PointsService *service.PointsService
	RewardService *service.RewardService
}

func NewPointsController(pointsService *service.PointsService, rewardService *service.RewardService) *PointsController {
	return &PointsController{PointsService: pointsService, RewardService: rewardService}
}

func (c *PointsController) StudentPoints(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	res, err := c.PointsService.StudentPoints(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

func (c *PointsController) Adjust(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.AdjustPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tx, err := c.PointsService.Adjust(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, tx)
}

func (c *PointsController) Overview(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	rows, err := c.PointsService.Overview(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// ListRewards shows a teacher every reward they own and a student the
// active rewards of their teacher.
func (c *PointsController) ListRewards(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var err error
	var rewards interface{}
	if user.Role == model.Teacher {
		rewards, err = c.RewardService.ListForTeacher(ctx.Request.Context(), user.UserID)
	} else {
		rewards, err = c.RewardService.ListForStudent(ctx.Request.Context(), user.TeacherID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rewards)
}

func (c *PointsController) CreateReward(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.RewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reward, err := c.RewardService.Create(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, reward)
}

func (c *PointsController) UpdateReward(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.RewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reward, err := c.RewardService.Update(ctx.Request.Context(), user.UserID, ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, reward)
}

func (c *PointsController) DeleteReward(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.RewardService.Delete(ctx.Request.Context(), user.UserID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}

func (c *PointsController) InitializeRewards(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	n, err := c.RewardService.InitializeDefaults(ctx.Request.Context(), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"created": n})
}

type RedeemRequest struct {
	RewardID string `json:"rewardId" binding:"required"`
}

func (c *PointsController) Redeem(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req RedeemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.RewardService.Redeem(ctx.Request.Context(), user.UserID, user.TeacherID, req.RewardID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
