package service

import (
	"context"
	"fmt"
	"strings"

	"homeschool_hub_backend/internal/llm"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

const LessonPlanSystemPrompt = "You are an expert curriculum designer and teacher."

type LessonPlanService struct {
	Plans LessonPlanStore
	AI    TextCompleter
}

func NewLessonPlanService(plans LessonPlanStore, ai TextCompleter) *LessonPlanService {
	return &LessonPlanService{Plans: plans, AI: ai}
}

type LessonPlanRequest struct {
	Subject    string `json:"subject" binding:"required"`
	GradeLevel string `json:"gradeLevel" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
}

// Generate asks the AI for a free-text plan. The text is stored as returned;
// when the AI fails a short fixed plan is stored instead.
func (s *LessonPlanService) Generate(ctx context.Context, teacherID string, req LessonPlanRequest) (*model.LessonPlan, error) {
	subject := strings.TrimSpace(req.Subject)
	topic := strings.TrimSpace(req.Topic)

	content, err := s.AI.Complete(llm.WithPurpose(ctx, "lesson_plan"), lessonPlanPrompt(subject, req.GradeLevel, topic))
	if err != nil || strings.TrimSpace(content) == "" {
		logger.Log.Warn("Lesson plan generation failed, using fallback", zap.String("topic", topic), zap.Error(err))
		content = fmt.Sprintf("Basic lesson plan for %s - %s at %s level. This lesson would cover fundamental concepts and include hands-on activities.",
			subject, topic, req.GradeLevel)
	}

	plan := &model.LessonPlan{
		Title:      fmt.Sprintf("%s - %s", subject, topic),
		Subject:    subject,
		GradeLevel: req.GradeLevel,
		Topic:      topic,
		Content:    content,
		TeacherID:  teacherID,
	}
	if err := s.Plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("save lesson plan: %w", err)
	}
	return plan, nil
}

func (s *LessonPlanService) List(ctx context.Context, teacherID string) ([]model.LessonPlan, error) {
	return s.Plans.ListByTeacher(ctx, teacherID)
}

func lessonPlanPrompt(subject, gradeLevel, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed lesson plan for %s students in %s on the topic: %s\n\n", gradeLevel, subject, topic)
	b.WriteString("Include:\n")
	b.WriteString("1. Learning Objectives (2-3 clear, measurable goals)\n")
	b.WriteString("2. Materials Needed (list of resources and supplies)\n")
	b.WriteString("3. Lesson Activities (step-by-step activities with time estimates)\n")
	b.WriteString("4. Assessment Methods (how to evaluate student understanding)\n")
	b.WriteString("5. Extension Activities (optional enrichment activities)\n\n")
	fmt.Fprintf(&b, "Make it practical and age-appropriate for %s students.\n", gradeLevel)
	b.WriteString("Format as a structured lesson plan that a homeschool parent can easily follow.")
	return b.String()
}
