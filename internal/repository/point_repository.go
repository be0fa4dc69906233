package repository

import (
	"context"
	"time"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointRepository is the append-only points ledger.
type PointRepository struct {
	DB *gorm.DB
}

func NewPointRepository(db *gorm.DB) *PointRepository {
	return &PointRepository{DB: db}
}

func (r *PointRepository) Create(ctx context.Context, tx *model.PointTransaction) error {
	return r.DB.WithContext(ctx).Create(tx).Error
}

func (r *PointRepository) Balance(ctx context.Context, studentID string) (int, error) {
	return balance(r.DB.WithContext(ctx), studentID)
}

func balance(db *gorm.DB, studentID string) (int, error) {
	var total int
	err := db.Model(&model.PointTransaction{}).
		Select("COALESCE(SUM(points), 0)").
		Where("student_id = ?", studentID).
		Scan(&total).Error
	return total, err
}

// Balances sums the ledger for several students in one query.
func (r *PointRepository) Balances(ctx context.Context, studentIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		StudentID string
		Total     int
	}
	err := r.DB.WithContext(ctx).
		Model(&model.PointTransaction{}).
		Select("student_id, COALESCE(SUM(points), 0) AS total").
		Where("student_id IN ?", studentIDs).
		Group("student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.StudentID] = row.Total
	}
	return out, nil
}

func (r *PointRepository) ListByStudent(ctx context.Context, studentID string) ([]model.PointTransaction, error) {
	var list []model.PointTransaction
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Redeem spends reward.PointsCost from the student's balance. The student row
// is locked for the duration, so concurrent redemptions cannot both pass the
// balance check. It returns the remaining balance.
func (r *PointRepository) Redeem(ctx context.Context, studentID string, reward *model.Reward) (int, error) {
	var remaining int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.StudentAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", studentID).
			First(&student).Error
		if err != nil {
			return translate(err)
		}

		current, err := balance(tx, studentID)
		if err != nil {
			return err
		}
		if current < reward.PointsCost {
			return util.ErrInsufficientPoints
		}

		rewardID := reward.ID
		entry := &model.PointTransaction{
			StudentID:   studentID,
			TeacherID:   reward.TeacherID,
			Points:      -reward.PointsCost,
			Type:        model.TransactionSpent,
			Description: "Redeemed: " + reward.Title,
			RewardID:    &rewardID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		redemption := &model.RewardRedemption{
			RewardID:    reward.ID,
			StudentID:   studentID,
			TeacherID:   reward.TeacherID,
			PointsSpent: reward.PointsCost,
			RedeemedAt:  time.Now(),
		}
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}

		remaining = current - reward.PointsCost
		return nil
	})
	return remaining, err
}
