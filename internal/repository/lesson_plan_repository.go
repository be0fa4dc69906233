package repository

import (
	"context"

	"homeschool_hub_backend/internal/model"

	"gorm.io/gorm"
)

type LessonPlanRepository struct {
	DB *gorm.DB
}

func NewLessonPlanRepository(db *gorm.DB) *LessonPlanRepository {
	return &LessonPlanRepository{DB: db}
}

func (r *LessonPlanRepository) Create(ctx context.Context, plan *model.LessonPlan) error {
	return r.DB.WithContext(ctx).Create(plan).Error
}

func (r *LessonPlanRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.LessonPlan, error) {
	var list []model.LessonPlan
	err := r.DB.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
