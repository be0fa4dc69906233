package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"homeschool_hub_backend/internal/grading"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"
	"homeschool_hub_backend/pkg/monitoring"
	"homeschool_hub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Awarder credits points for a completed assignment. *PointsService satisfies it.
type Awarder interface {
	Award(ctx context.Context, studentID, teacherID, assignmentID string, points int, description string) error
}

// RewardPolicy decides when a submission earns points and how many.
type RewardPolicy struct {
	Threshold float64
	Points    int
}

var DefaultRewardPolicy = RewardPolicy{Threshold: grading.DefaultRewardThreshold, Points: 5}

type SubmissionService struct {
	Bindings    StudentAssignmentStore
	Assignments AssignmentStore
	Points      Awarder

	mu     sync.RWMutex
	policy RewardPolicy
}

func NewSubmissionService(bindings StudentAssignmentStore, assignments AssignmentStore, points Awarder) *SubmissionService {
	return &SubmissionService{
		Bindings:    bindings,
		Assignments: assignments,
		Points:      points,
		policy:      DefaultRewardPolicy,
	}
}

// SetRewardPolicy swaps the policy used by later submissions.
func (s *SubmissionService) SetRewardPolicy(p RewardPolicy) {
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
}

func (s *SubmissionService) RewardPolicy() RewardPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

type SubmitRequest struct {
	StudentAssignmentID string                  `json:"studentAssignmentId" binding:"required"`
	Answers             model.SubmissionAnswers `json:"answers"`
}

type SubmissionResult struct {
	grading.Result
	PointsAwarded int `json:"pointsAwarded"`
}

// Submit grades a student's answers and completes the binding. A binding is
// completed at most once: a second submission, or one that loses a race with
// a concurrent submission, gets ErrAlreadySubmitted.
func (s *SubmissionService) Submit(ctx context.Context, studentAssignmentID, submitterID string, answers model.SubmissionAnswers) (*SubmissionResult, error) {
	ctx, span := tracing.StartSpan(ctx, "submission.submit", attribute.String("studentAssignmentId", studentAssignmentID))
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	binding, err := s.Bindings.FindByID(ctx, studentAssignmentID)
	if err != nil {
		s.count(err)
		return nil, err
	}
	if binding.StudentID != submitterID {
		err = util.ErrNotFound
		s.count(err)
		return nil, err
	}
	if binding.Completed() {
		err = util.ErrAlreadySubmitted
		s.count(err)
		return nil, err
	}

	assignment, err := s.Assignments.FindByID(ctx, binding.AssignmentID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			logger.Log.Warn("Binding references a missing assignment",
				zap.String("studentAssignmentId", binding.ID),
				zap.String("assignmentId", binding.AssignmentID),
			)
		}
		s.count(err)
		return nil, err
	}

	result := grading.Grade(assignment.Content.Data(), answers)
	span.SetAttributes(attribute.Float64("score", result.Score))

	updated, err := s.Bindings.MarkCompleted(ctx, binding.ID, answers, result.Score, time.Now())
	if err != nil {
		s.count(err)
		return nil, fmt.Errorf("complete submission: %w", err)
	}
	if !updated {
		err = util.ErrAlreadySubmitted
		s.count(err)
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues("completed").Inc()
	monitoring.SubmissionScore.Observe(result.Score)

	out := &SubmissionResult{Result: result}
	policy := s.RewardPolicy()
	if result.RewardEligible(policy.Threshold) && policy.Points > 0 {
		desc := "Completed assignment: " + assignment.Title
		if awardErr := s.Points.Award(ctx, binding.StudentID, binding.TeacherID, assignment.ID, policy.Points, desc); awardErr != nil {
			logger.Log.Error("Failed to award points",
				zap.String("studentAssignmentId", binding.ID),
				zap.String("studentId", binding.StudentID),
				zap.Error(awardErr),
			)
		} else {
			out.PointsAwarded = policy.Points
		}
	}

	logger.Log.Info("Assignment submitted",
		zap.String("studentAssignmentId", binding.ID),
		zap.String("studentId", binding.StudentID),
		zap.Float64("score", result.Score),
		zap.Int("pointsAwarded", out.PointsAwarded),
	)
	return out, nil
}

func (s *SubmissionService) count(err error) {
	label := "error"
	switch {
	case errors.Is(err, util.ErrNotFound):
		label = "not_found"
	case errors.Is(err, util.ErrAlreadySubmitted):
		label = "conflict"
	}
	monitoring.SubmissionCounter.WithLabelValues(label).Inc()
}
