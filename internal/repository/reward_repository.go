package repository

import (
	"context"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"gorm.io/gorm"
)

type RewardRepository struct {
	DB *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{DB: db}
}

func (r *RewardRepository) Create(ctx context.Context, rewards ...*model.Reward) error {
	if len(rewards) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(rewards).Error
}

func (r *RewardRepository) FindByID(ctx context.Context, id string) (*model.Reward, error) {
	var reward model.Reward
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&reward).Error; err != nil {
		return nil, translate(err)
	}
	return &reward, nil
}

func (r *RewardRepository) ListByTeacher(ctx context.Context, teacherID string, activeOnly bool) ([]model.Reward, error) {
	q := r.DB.WithContext(ctx).Where("teacher_id = ?", teacherID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []model.Reward
	err := q.Order("points_cost ASC").Find(&list).Error
	return list, err
}

func (r *RewardRepository) CountByTeacher(ctx context.Context, teacherID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Reward{}).Where("teacher_id = ?", teacherID).Count(&count).Error
	return count, err
}

func (r *RewardRepository) Update(ctx context.Context, reward *model.Reward) error {
	res := r.DB.WithContext(ctx).
		Model(&model.Reward{}).
		Where("id = ? AND teacher_id = ?", reward.ID, reward.TeacherID).
		Updates(map[string]interface{}{
			"title":       reward.Title,
			"description": reward.Description,
			"points_cost": reward.PointsCost,
			"active":      reward.Active,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *RewardRepository) Delete(ctx context.Context, id, teacherID string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.Reward{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
