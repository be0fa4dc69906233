package model

import (
	"time"

	"gorm.io/datatypes"
)

type Message struct {
	UUIDBase
	SenderID    string    `gorm:"type:varchar(36);index;not null" json:"senderId"`
	RecipientID string    `gorm:"type:varchar(36);index;not null" json:"recipientId"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	SentAt      time.Time `gorm:"index" json:"sentAt"`
	Read        bool      `gorm:"default:false" json:"read"`
}

func (Message) TableName() string {
	return "messages"
}

type LessonPlan struct {
	UUIDBase
	Title      string `gorm:"size:255;not null" json:"title"`
	Subject    string `gorm:"size:100;not null" json:"subject"`
	GradeLevel string `gorm:"size:50;not null" json:"gradeLevel"`
	Topic      string `gorm:"size:255;not null" json:"topic"`
	Content    string `gorm:"type:text" json:"content"`
	TeacherID  string `gorm:"type:varchar(36);index;not null" json:"teacherId"`
}

func (LessonPlan) TableName() string {
	return "lesson_plans"
}

// SpellingWordsPerList is the fixed length of a spelling list.
const SpellingWordsPerList = 10

type SpellingList struct {
	UUIDBase
	Name      string                      `gorm:"size:255;not null" json:"name"`
	Words     datatypes.JSONSlice[string] `gorm:"type:json" json:"words"`
	StudentID string                      `gorm:"type:varchar(36);index;not null" json:"studentId"`
	TeacherID string                      `gorm:"type:varchar(36);index;not null" json:"teacherId"`
}

func (SpellingList) TableName() string {
	return "spelling_lists"
}
