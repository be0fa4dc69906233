package repository

import (
	"context"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"gorm.io/gorm"
)

// UserRepository stores teacher accounts.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// StudentRepository stores student accounts. Every query that a teacher
// drives is scoped by teacher id.
type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(ctx context.Context, student *model.StudentAccount) error {
	return r.DB.WithContext(ctx).Create(student).Error
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*model.StudentAccount, error) {
	var student model.StudentAccount
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return nil, translate(err)
	}
	return &student, nil
}

func (r *StudentRepository) FindByUsername(ctx context.Context, username string) (*model.StudentAccount, error) {
	var student model.StudentAccount
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&student).Error; err != nil {
		return nil, translate(err)
	}
	return &student, nil
}

func (r *StudentRepository) FindOwned(ctx context.Context, id, teacherID string) (*model.StudentAccount, error) {
	var student model.StudentAccount
	err := r.DB.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&student).Error
	if err != nil {
		return nil, translate(err)
	}
	return &student, nil
}

func (r *StudentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.StudentAccount, error) {
	var students []model.StudentAccount
	err := r.DB.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("first_name ASC, last_name ASC").
		Find(&students).Error
	return students, err
}

// Delete removes the student together with their bindings, ledger and
// word lists.
func (r *StudentRepository) Delete(ctx context.Context, id, teacherID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.StudentAccount{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrNotFound
		}
		for _, m := range []interface{}{
			&model.StudentAssignment{},
			&model.PointTransaction{},
			&model.RewardRedemption{},
			&model.SpellingList{},
		} {
			if err := tx.Where("student_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
