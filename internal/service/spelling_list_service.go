package service

import (
	"context"
	"strings"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
)

type SpellingListService struct {
	Lists    SpellingListStore
	Students StudentStore
}

func NewSpellingListService(lists SpellingListStore, students StudentStore) *SpellingListService {
	return &SpellingListService{Lists: lists, Students: students}
}

type SpellingListRequest struct {
	Name      string   `json:"name" binding:"required"`
	Words     []string `json:"words" binding:"required"`
	StudentID string   `json:"studentId" binding:"required"`
}

func normalizeWords(words []string) ([]string, error) {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return nil, util.ErrInvalidWordList
		}
		out = append(out, w)
	}
	if len(out) != model.SpellingWordsPerList {
		return nil, util.ErrInvalidWordList
	}
	return out, nil
}

func (s *SpellingListService) Create(ctx context.Context, teacherID string, req SpellingListRequest) (*model.SpellingList, error) {
	words, err := normalizeWords(req.Words)
	if err != nil {
		return nil, err
	}
	if _, err := s.Students.FindOwned(ctx, req.StudentID, teacherID); err != nil {
		return nil, err
	}

	list := &model.SpellingList{
		Name:      strings.TrimSpace(req.Name),
		Words:     words,
		StudentID: req.StudentID,
		TeacherID: teacherID,
	}
	if err := s.Lists.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *SpellingListService) Update(ctx context.Context, teacherID, listID string, req SpellingListRequest) (*model.SpellingList, error) {
	words, err := normalizeWords(req.Words)
	if err != nil {
		return nil, err
	}
	list, err := s.Lists.FindOwned(ctx, listID, teacherID)
	if err != nil {
		return nil, err
	}
	if req.StudentID != list.StudentID {
		if _, err := s.Students.FindOwned(ctx, req.StudentID, teacherID); err != nil {
			return nil, err
		}
	}

	list.Name = strings.TrimSpace(req.Name)
	list.Words = words
	list.StudentID = req.StudentID
	if err := s.Lists.Update(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *SpellingListService) Get(ctx context.Context, teacherID, listID string) (*model.SpellingList, error) {
	return s.Lists.FindOwned(ctx, listID, teacherID)
}

func (s *SpellingListService) List(ctx context.Context, teacherID string) ([]model.SpellingList, error) {
	return s.Lists.ListByTeacher(ctx, teacherID)
}

func (s *SpellingListService) Delete(ctx context.Context, teacherID, listID string) error {
	return s.Lists.Delete(ctx, listID, teacherID)
}
