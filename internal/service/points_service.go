package service

import (
	"context"
	"fmt"
	"strings"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"
	"homeschool_hub_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// PointsService owns the points ledger. Balances are never stored; they are
// the sum of a student's transactions, optionally cached.
type PointsService struct {
	Points   PointStore
	Students StudentStore
	Cache    BalanceCache
}

func NewPointsService(points PointStore, students StudentStore, cache BalanceCache) *PointsService {
	if cache == nil {
		cache = noopBalanceCache{}
	}
	return &PointsService{Points: points, Students: students, Cache: cache}
}

// Award appends an earned transaction.
func (s *PointsService) Award(ctx context.Context, studentID, teacherID, assignmentID string, points int, description string) error {
	tx := &model.PointTransaction{
		StudentID:   studentID,
		TeacherID:   teacherID,
		Points:      points,
		Type:        model.TransactionEarned,
		Description: description,
	}
	if assignmentID != "" {
		tx.AssignmentID = &assignmentID
	}
	if err := s.Points.Create(ctx, tx); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, studentID)
	monitoring.PointsAwarded.WithLabelValues(string(model.TransactionEarned)).Inc()
	return nil
}

// Balance reads through the cache. A sum computed while the ledger changed
// is returned but not cached.
func (s *PointsService) Balance(ctx context.Context, studentID string) (int, error) {
	n, version, ok := s.Cache.Lookup(ctx, studentID)
	if ok {
		return n, nil
	}
	n, err := s.Points.Balance(ctx, studentID)
	if err != nil {
		return 0, err
	}
	s.Cache.Store(ctx, studentID, n, version)
	return n, nil
}

type StudentPoints struct {
	TotalPoints  int                      `json:"totalPoints"`
	Transactions []model.PointTransaction `json:"transactions"`
}

// StudentPoints returns the balance with the full ledger, newest first.
func (s *PointsService) StudentPoints(ctx context.Context, studentID string) (*StudentPoints, error) {
	total, err := s.Balance(ctx, studentID)
	if err != nil {
		return nil, err
	}
	list, err := s.Points.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &StudentPoints{TotalPoints: total, Transactions: list}, nil
}

type AdjustPointsRequest struct {
	StudentID   string `json:"studentId" binding:"required"`
	Points      int    `json:"points" binding:"required"`
	Description string `json:"description"`
}

// Adjust applies a manual correction to one of the teacher's students.
// Positive amounts are recorded as manual_add, negative as manual_subtract.
func (s *PointsService) Adjust(ctx context.Context, teacherID string, req AdjustPointsRequest) (*model.PointTransaction, error) {
	if req.Points == 0 {
		return nil, util.ErrInvalidPoints
	}
	if _, err := s.Students.FindOwned(ctx, req.StudentID, teacherID); err != nil {
		return nil, err
	}

	txType := model.TransactionManualAdd
	if req.Points < 0 {
		txType = model.TransactionManualSubtract
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		desc = fmt.Sprintf("Manual adjustment: %+d", req.Points)
	}

	tx := &model.PointTransaction{
		StudentID:   req.StudentID,
		TeacherID:   teacherID,
		Points:      req.Points,
		Type:        txType,
		Description: desc,
	}
	if err := s.Points.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, req.StudentID)
	monitoring.PointsAwarded.WithLabelValues(string(txType)).Inc()

	logger.Log.Info("Points adjusted",
		zap.String("teacherId", teacherID),
		zap.String("studentId", req.StudentID),
		zap.Int("points", req.Points),
	)
	return tx, nil
}

type StudentPointsSummary struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
}

// Overview lists the balance of every student the teacher owns.
func (s *PointsService) Overview(ctx context.Context, teacherID string) ([]StudentPointsSummary, error) {
	students, err := s.Students.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	balances, err := s.Points.Balances(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]StudentPointsSummary, 0, len(students))
	for i := range students {
		st := &students[i]
		out = append(out, StudentPointsSummary{
			StudentID:   st.ID,
			StudentName: st.FullName(),
			Username:    st.Username,
			TotalPoints: balances[st.ID],
		})
	}
	return out, nil
}

// Redeem spends the reward's cost. The balance check and the spend are one
// atomic step in the store.
func (s *PointsService) Redeem(ctx context.Context, studentID string, reward *model.Reward) (int, error) {
	remaining, err := s.Points.Redeem(ctx, studentID, reward)
	if err != nil {
		return 0, err
	}
	s.Cache.Invalidate(ctx, studentID)
	monitoring.PointsAwarded.WithLabelValues(string(model.TransactionSpent)).Inc()

	// Re-read so the next balance request is served from the cache.
	if current, err := s.Balance(ctx, studentID); err == nil {
		return current, nil
	}
	return remaining, nil
}
