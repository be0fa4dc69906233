package service

import (
	"context"
	"time"

	"homeschool_hub_backend/internal/model"
)

type GradebookService struct {
	Students    StudentStore
	Bindings    StudentAssignmentStore
	Assignments AssignmentStore
}

func NewGradebookService(students StudentStore, bindings StudentAssignmentStore, assignments AssignmentStore) *GradebookService {
	return &GradebookService{Students: students, Bindings: bindings, Assignments: assignments}
}

type GradeEntry struct {
	AssignmentID    string     `json:"assignmentId"`
	AssignmentTitle string     `json:"assignmentTitle"`
	Subject         string     `json:"subject"`
	Score           *float64   `json:"score"`
	SubmittedAt     *time.Time `json:"submittedAt"`
}

type GradebookRow struct {
	Student     model.StudentAccount `json:"student"`
	Assignments []GradeEntry         `json:"assignments"`
}

// Gradebook lists every student the teacher owns with their completed work.
// Completions whose assignment was deleted are left out.
func (s *GradebookService) Gradebook(ctx context.Context, teacherID string) ([]GradebookRow, error) {
	students, err := s.Students.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Bindings.ListCompletedByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(completed))
	for _, b := range completed {
		ids = append(ids, b.AssignmentID)
	}
	assignments, err := s.Assignments.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Assignment, len(assignments))
	for i := range assignments {
		byID[assignments[i].ID] = &assignments[i]
	}

	perStudent := make(map[string][]GradeEntry)
	for _, b := range completed {
		a, ok := byID[b.AssignmentID]
		if !ok {
			continue
		}
		perStudent[b.StudentID] = append(perStudent[b.StudentID], GradeEntry{
			AssignmentID:    a.ID,
			AssignmentTitle: a.Title,
			Subject:         a.Subject,
			Score:           b.Score,
			SubmittedAt:     b.SubmittedAt,
		})
	}

	rows := make([]GradebookRow, 0, len(students))
	for _, st := range students {
		entries := perStudent[st.ID]
		if entries == nil {
			entries = []GradeEntry{}
		}
		rows = append(rows, GradebookRow{Student: st, Assignments: entries})
	}
	return rows, nil
}
