package service

import (
	"context"
	"strings"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

var defaultRewards = []struct {
	title       string
	description string
	cost        int
}{
	{"1 Hour of Game Time", "Enjoy one hour of video games", 50},
	{"2 Hours of Game Time", "Enjoy two hours of video games", 100},
	{"12oz Coke", "A refreshing 12oz Coca-Cola", 25},
	{"TV at Night", "Watch TV before bedtime", 75},
	{"One Day Off School", "Take a full day off from school work", 500},
}

type RewardService struct {
	Rewards  RewardStore
	Students StudentStore
	Points   *PointsService
}

func NewRewardService(rewards RewardStore, students StudentStore, points *PointsService) *RewardService {
	return &RewardService{Rewards: rewards, Students: students, Points: points}
}

type RewardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	PointsCost  int    `json:"pointsCost" binding:"required,gt=0"`
	Active      *bool  `json:"active"`
}

// InitializeDefaults gives a teacher the starter rewards. It does nothing
// once the teacher has any reward.
func (s *RewardService) InitializeDefaults(ctx context.Context, teacherID string) (int, error) {
	n, err := s.Rewards.CountByTeacher(ctx, teacherID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	rewards := make([]*model.Reward, 0, len(defaultRewards))
	for _, d := range defaultRewards {
		rewards = append(rewards, &model.Reward{
			Title:       d.title,
			Description: d.description,
			PointsCost:  d.cost,
			Active:      true,
			TeacherID:   teacherID,
		})
	}
	if err := s.Rewards.Create(ctx, rewards...); err != nil {
		return 0, err
	}
	logger.Log.Info("Default rewards created", zap.String("teacherId", teacherID), zap.Int("count", len(rewards)))
	return len(rewards), nil
}

func (s *RewardService) Create(ctx context.Context, teacherID string, req RewardRequest) (*model.Reward, error) {
	reward := &model.Reward{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Active:      req.Active == nil || *req.Active,
		TeacherID:   teacherID,
	}
	if err := s.Rewards.Create(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *RewardService) Update(ctx context.Context, teacherID, rewardID string, req RewardRequest) (*model.Reward, error) {
	reward, err := s.owned(ctx, teacherID, rewardID)
	if err != nil {
		return nil, err
	}
	reward.Title = strings.TrimSpace(req.Title)
	reward.Description = req.Description
	reward.PointsCost = req.PointsCost
	if req.Active != nil {
		reward.Active = *req.Active
	}
	if err := s.Rewards.Update(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *RewardService) Delete(ctx context.Context, teacherID, rewardID string) error {
	return s.Rewards.Delete(ctx, rewardID, teacherID)
}

func (s *RewardService) owned(ctx context.Context, teacherID, rewardID string) (*model.Reward, error) {
	reward, err := s.Rewards.FindByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if reward.TeacherID != teacherID {
		return nil, util.ErrNotFound
	}
	return reward, nil
}

// ListForTeacher includes inactive rewards.
func (s *RewardService) ListForTeacher(ctx context.Context, teacherID string) ([]model.Reward, error) {
	return s.Rewards.ListByTeacher(ctx, teacherID, false)
}

// ListForStudent shows the active rewards of the student's teacher.
func (s *RewardService) ListForStudent(ctx context.Context, teacherID string) ([]model.Reward, error) {
	return s.Rewards.ListByTeacher(ctx, teacherID, true)
}

type RedeemResult struct {
	Reward          *model.Reward `json:"reward"`
	RemainingPoints int           `json:"remainingPoints"`
}

// Redeem spends points on one of the student's teacher's active rewards.
func (s *RewardService) Redeem(ctx context.Context, studentID, teacherID, rewardID string) (*RedeemResult, error) {
	reward, err := s.owned(ctx, teacherID, rewardID)
	if err != nil {
		return nil, err
	}
	if !reward.Active {
		return nil, util.ErrRewardInactive
	}

	remaining, err := s.Points.Redeem(ctx, studentID, reward)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Reward redeemed",
		zap.String("studentId", studentID),
		zap.String("rewardId", reward.ID),
		zap.Int("remaining", remaining),
	)
	return &RedeemResult{Reward: reward, RemainingPoints: remaining}, nil
}
