package model

import "time"

type TransactionType string

const (
	TransactionEarned         TransactionType = "earned"
	TransactionManualAdd      TransactionType = "manual_add"
	TransactionManualSubtract TransactionType = "manual_subtract"
	TransactionSpent          TransactionType = "spent"
)

// PointTransaction is an append-only ledger entry. A balance is the sum of
// all entries for a student.
type PointTransaction struct {
	UUIDBase
	StudentID    string          `gorm:"type:varchar(36);index;not null" json:"studentId"`
	TeacherID    string          `gorm:"type:varchar(36);index" json:"teacherId"`
	Points       int             `gorm:"not null" json:"points"`
	Type         TransactionType `gorm:"size:20;not null" json:"type"`
	Description  string          `gorm:"size:255" json:"description"`
	AssignmentID *string         `gorm:"type:varchar(36)" json:"assignmentId,omitempty"`
	RewardID     *string         `gorm:"type:varchar(36)" json:"rewardId,omitempty"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}

type Reward struct {
	UUIDBase
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"size:512" json:"description"`
	PointsCost  int    `gorm:"not null" json:"pointsCost"`
	Active      bool   `gorm:"default:true" json:"active"`
	TeacherID   string `gorm:"type:varchar(36);index;not null" json:"teacherId"`
}

func (Reward) TableName() string {
	return "rewards"
}

type RewardRedemption struct {
	UUIDBase
	RewardID    string    `gorm:"type:varchar(36);index;not null" json:"rewardId"`
	StudentID   string    `gorm:"type:varchar(36);index;not null" json:"studentId"`
	TeacherID   string    `gorm:"type:varchar(36);index;not null" json:"teacherId"`
	PointsSpent int       `gorm:"not null" json:"pointsSpent"`
	RedeemedAt  time.Time `json:"redeemedAt"`
}

func (RewardRedemption) TableName() string {
	return "reward_redemptions"
}
