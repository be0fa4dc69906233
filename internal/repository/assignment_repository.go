package repository

import (
	"context"
	"time"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AssignmentRepository) FindOwned(ctx context.Context, id, teacherID string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error) {
	var list []model.Assignment
	err := r.DB.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindByIDs is used to join bindings to their templates in one query.
func (r *AssignmentRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Assignment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Assignment
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// UpdateContent writes the regenerated payload. Classification fields and
// ownership never change. The write only lands while no binding of the
// assignment is completed, so a recorded score always refers to the content
// it was graded against.
func (r *AssignmentRepository) UpdateContent(ctx context.Context, a *model.Assignment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completed := tx.Model(&model.StudentAssignment{}).
			Select("1").
			Where("assignment_id = ? AND state = ?", a.ID, model.StateCompleted)

		res := tx.Model(&model.Assignment{}).
			Where("id = ? AND teacher_id = ?", a.ID, a.TeacherID).
			Where("NOT EXISTS (?)", completed).
			Updates(map[string]interface{}{
				"content":    a.Content,
				"fallback":   a.Fallback,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		var inUse int64
		if err := tx.Model(&model.StudentAssignment{}).
			Where("assignment_id = ? AND state = ?", a.ID, model.StateCompleted).
			Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return util.ErrAssignmentInUse
		}
		return util.ErrNotFound
	})
}

// Delete removes the template and every binding still waiting on it.
// Completed bindings keep their recorded score.
func (r *AssignmentRepository) Delete(ctx context.Context, id, teacherID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.Assignment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrNotFound
		}
		return tx.Where("assignment_id = ? AND state = ?", id, model.StateAssigned).
			Delete(&model.StudentAssignment{}).Error
	})
}
