package service

import (
	"context"
	"errors"
	"strings"

	"homeschool_hub_backend/internal/config"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Teachers TeacherStore
	Students StudentStore
	Cfg      *config.Config
}

func NewAuthService(teachers TeacherStore, students StudentStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Teachers: teachers,
		Students: students,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func (s *AuthService) RegisterTeacher(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.Teachers.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      model.Teacher,
	}
	if err := s.Teachers.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Log.Info("Teacher registered", zap.String("teacherId", user.ID))

	token, err := util.GenerateJWT(user.ID, model.Teacher, "", s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) LoginTeacher(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Teachers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user.ID, model.Teacher, "", s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) LoginStudent(ctx context.Context, username, password string) (*AuthResult, error) {
	student, err := s.Students.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(student.ID, model.Student, student.TeacherID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: student}, nil
}
