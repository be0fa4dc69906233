package model

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment is the shared template a teacher generates. Only regeneration
// replaces its content.
type Assignment struct {
	UUIDBase
	Title          string                      `gorm:"size:255;not null" json:"title"`
	Subject        string                      `gorm:"size:100;not null;index" json:"subject"`
	GradeLevel     string                      `gorm:"size:50;not null" json:"gradeLevel"`
	Topic          string                      `gorm:"size:255;not null" json:"topic"`
	SubLevel       *int                        `json:"subLevel,omitempty"`
	VideoURL       string                      `gorm:"size:512" json:"videoUrl,omitempty"`
	SpellingListID string                      `gorm:"type:varchar(36)" json:"spellingListId,omitempty"`
	Content        datatypes.JSONType[Content] `gorm:"type:json" json:"content"`
	TeacherID      string                      `gorm:"type:varchar(36);index;not null" json:"teacherId"`
	Fallback       bool                        `gorm:"default:false" json:"fallback"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type AssignmentState string

const (
	StateAssigned  AssignmentState = "assigned"
	StateCompleted AssignmentState = "completed"
)

// SubmissionAnswers holds the raw answers for every channel, stored verbatim.
type SubmissionAnswers struct {
	MultipleChoice   []int             `json:"multipleChoice,omitempty"`
	Coding           []string          `json:"coding,omitempty"`
	DragDrop         map[string]string `json:"dragDrop,omitempty"`
	InteractiveWords []string          `json:"interactiveWords,omitempty"`
	Spelling         []string          `json:"spelling,omitempty"`
}

// StudentAssignment binds an assignment to one student. The state only moves
// from assigned to completed.
type StudentAssignment struct {
	UUIDBase
	AssignmentID string                                `gorm:"type:varchar(36);index;not null" json:"assignmentId"`
	StudentID    string                                `gorm:"type:varchar(36);index;not null" json:"studentId"`
	TeacherID    string                                `gorm:"type:varchar(36);index;not null" json:"teacherId"`
	State        AssignmentState                       `gorm:"size:20;not null;default:'assigned';index" json:"state"`
	AssignedAt   time.Time                             `json:"assignedAt"`
	SubmittedAt  *time.Time                            `json:"submittedAt,omitempty"`
	Answers      *datatypes.JSONType[SubmissionAnswers] `gorm:"type:json" json:"answers,omitempty"`
	Score        *float64                              `json:"score,omitempty"`
}

func (StudentAssignment) TableName() string {
	return "student_assignments"
}

func (sa *StudentAssignment) Completed() bool {
	return sa.State == StateCompleted
}
