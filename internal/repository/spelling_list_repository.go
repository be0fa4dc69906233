package repository

import (
	"context"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"gorm.io/gorm"
)

type SpellingListRepository struct {
	DB *gorm.DB
}

func NewSpellingListRepository(db *gorm.DB) *SpellingListRepository {
	return &SpellingListRepository{DB: db}
}

func (r *SpellingListRepository) Create(ctx context.Context, list *model.SpellingList) error {
	return r.DB.WithContext(ctx).Create(list).Error
}

func (r *SpellingListRepository) FindOwned(ctx context.Context, id, teacherID string) (*model.SpellingList, error) {
	var list model.SpellingList
	err := r.DB.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return &list, nil
}

func (r *SpellingListRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.SpellingList, error) {
	var lists []model.SpellingList
	err := r.DB.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (r *SpellingListRepository) Update(ctx context.Context, list *model.SpellingList) error {
	res := r.DB.WithContext(ctx).
		Model(&model.SpellingList{}).
		Where("id = ? AND teacher_id = ?", list.ID, list.TeacherID).
		Updates(map[string]interface{}{
			"name":       list.Name,
			"words":      list.Words,
			"student_id": list.StudentID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *SpellingListRepository) Delete(ctx context.Context, id, teacherID string) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.SpellingList{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
