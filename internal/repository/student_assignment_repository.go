package repository

import (
	"context"
	"time"

	"homeschool_hub_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentAssignmentRepository struct {
	DB *gorm.DB
}

func NewStudentAssignmentRepository(db *gorm.DB) *StudentAssignmentRepository {
	return &StudentAssignmentRepository{DB: db}
}

func (r *StudentAssignmentRepository) Create(ctx context.Context, sa *model.StudentAssignment) error {
	return r.DB.WithContext(ctx).Create(sa).Error
}

func (r *StudentAssignmentRepository) FindByID(ctx context.Context, id string) (*model.StudentAssignment, error) {
	var sa model.StudentAssignment
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&sa).Error; err != nil {
		return nil, translate(err)
	}
	return &sa, nil
}

func (r *StudentAssignmentRepository) Exists(ctx context.Context, assignmentID, studentID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.StudentAssignment{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *StudentAssignmentRepository) CountCompleted(ctx context.Context, assignmentID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.StudentAssignment{}).
		Where("assignment_id = ? AND state = ?", assignmentID, model.StateCompleted).
		Count(&count).Error
	return count, err
}

func (r *StudentAssignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]model.StudentAssignment, error) {
	var list []model.StudentAssignment
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("assigned_at DESC").
		Find(&list).Error
	return list, err
}

func (r *StudentAssignmentRepository) ListCompletedByTeacher(ctx context.Context, teacherID string) ([]model.StudentAssignment, error) {
	var list []model.StudentAssignment
	err := r.DB.WithContext(ctx).
		Where("teacher_id = ? AND state = ?", teacherID, model.StateCompleted).
		Order("submitted_at DESC").
		Find(&list).Error
	return list, err
}

// MarkCompleted is the only transition out of ASSIGNED. It reports false
// when another submission won the race.
func (r *StudentAssignmentRepository) MarkCompleted(ctx context.Context, id string, answers model.SubmissionAnswers, score float64, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.StudentAssignment{}).
		Where("id = ? AND state = ?", id, model.StateAssigned).
		Updates(map[string]interface{}{
			"state":        model.StateCompleted,
			"answers":      datatypes.NewJSONType(answers),
			"score":        score,
			"submitted_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
