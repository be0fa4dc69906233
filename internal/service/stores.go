package service

import (
	"context"
	"time"

	"homeschool_hub_backend/internal/model"
)

// The interfaces below are the persistence the services need. The gorm
// repositories satisfy them; tests use in-memory fakes.

type TeacherStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type StudentStore interface {
	Create(ctx context.Context, student *model.StudentAccount) error
	FindByID(ctx context.Context, id string) (*model.StudentAccount, error)
	FindByUsername(ctx context.Context, username string) (*model.StudentAccount, error)
	FindOwned(ctx context.Context, id, teacherID string) (*model.StudentAccount, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.StudentAccount, error)
	Delete(ctx context.Context, id, teacherID string) error
}

type AssignmentStore interface {
	Create(ctx context.Context, a *model.Assignment) error
	FindByID(ctx context.Context, id string) (*model.Assignment, error)
	FindOwned(ctx context.Context, id, teacherID string) (*model.Assignment, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Assignment, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error)
	UpdateContent(ctx context.Context, a *model.Assignment) error
	Delete(ctx context.Context, id, teacherID string) error
}

type StudentAssignmentStore interface {
	Create(ctx context.Context, sa *model.StudentAssignment) error
	FindByID(ctx context.Context, id string) (*model.StudentAssignment, error)
	Exists(ctx context.Context, assignmentID, studentID string) (bool, error)
	CountCompleted(ctx context.Context, assignmentID string) (int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentAssignment, error)
	ListCompletedByTeacher(ctx context.Context, teacherID string) ([]model.StudentAssignment, error)
	MarkCompleted(ctx context.Context, id string, answers model.SubmissionAnswers, score float64, at time.Time) (bool, error)
}

type PointStore interface {
	Create(ctx context.Context, tx *model.PointTransaction) error
	Balance(ctx context.Context, studentID string) (int, error)
	Balances(ctx context.Context, studentIDs []string) (map[string]int, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.PointTransaction, error)
	Redeem(ctx context.Context, studentID string, reward *model.Reward) (int, error)
}

type RewardStore interface {
	Create(ctx context.Context, rewards ...*model.Reward) error
	FindByID(ctx context.Context, id string) (*model.Reward, error)
	ListByTeacher(ctx context.Context, teacherID string, activeOnly bool) ([]model.Reward, error)
	CountByTeacher(ctx context.Context, teacherID string) (int64, error)
	Update(ctx context.Context, reward *model.Reward) error
	Delete(ctx context.Context, id, teacherID string) error
}

type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	Conversation(ctx context.Context, a, b string) ([]model.Message, error)
	MarkRead(ctx context.Context, recipientID, senderID string) error
	ListInvolving(ctx context.Context, userID string) ([]model.Message, error)
}

type LessonPlanStore interface {
	Create(ctx context.Context, plan *model.LessonPlan) error
	ListByTeacher(ctx context.Context, teacherID string) ([]model.LessonPlan, error)
}

type SpellingListStore interface {
	Create(ctx context.Context, list *model.SpellingList) error
	FindOwned(ctx context.Context, id, teacherID string) (*model.SpellingList, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.SpellingList, error)
	Update(ctx context.Context, list *model.SpellingList) error
	Delete(ctx context.Context, id, teacherID string) error
}

// TextCompleter makes one bounded AI call. *llm.Completer satisfies it.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RawArchiver keeps AI output that generation could not use.
type RawArchiver interface {
	ArchiveRawOutput(ctx context.Context, assignmentID, raw string) error
	RawOutput(ctx context.Context, assignmentID string) (string, error)
	DropRawOutput(ctx context.Context, assignmentID string) error
}

// Notifier pushes a live event to a connected user. *MessageHub satisfies it.
type Notifier interface {
	Deliver(ctx context.Context, recipientID string, msg WSMessage)
}
