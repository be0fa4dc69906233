package service

import (
	"context"
	"errors"
	"strings"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StudentService manages the students a teacher owns.
type StudentService struct {
	Students StudentStore
}

func NewStudentService(students StudentStore) *StudentService {
	return &StudentService{Students: students}
}

type CreateStudentRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=4"`
}

func (s *StudentService) Create(ctx context.Context, teacherID string, req CreateStudentRequest) (*model.StudentAccount, error) {
	username := strings.TrimSpace(req.Username)

	_, err := s.Students.FindByUsername(ctx, username)
	if err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	student := &model.StudentAccount{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  username,
		Password:  string(hashed),
		TeacherID: teacherID,
	}
	if err := s.Students.Create(ctx, student); err != nil {
		return nil, err
	}

	logger.Log.Info("Student created", zap.String("teacherId", teacherID), zap.String("studentId", student.ID))
	return student, nil
}

func (s *StudentService) List(ctx context.Context, teacherID string) ([]model.StudentAccount, error) {
	return s.Students.ListByTeacher(ctx, teacherID)
}

func (s *StudentService) Delete(ctx context.Context, teacherID, studentID string) error {
	return s.Students.Delete(ctx, studentID, teacherID)
}
