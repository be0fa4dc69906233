package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"homeschool_hub_backend/internal/curriculum"
	"homeschool_hub_backend/internal/llm"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"
	"homeschool_hub_backend/pkg/monitoring"
	"homeschool_hub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AssignmentService generates assignment templates and binds them to students.
// Callers must be teachers; the route guard enforces that and the service
// trusts the teacher id it is handed.
type AssignmentService struct {
	Assignments   AssignmentStore
	Bindings      StudentAssignmentStore
	Students      StudentStore
	SpellingLists SpellingListStore
	Registry      *curriculum.Registry
	AI            TextCompleter
	Archive       RawArchiver
}

func NewAssignmentService(
	assignments AssignmentStore,
	bindings StudentAssignmentStore,
	students StudentStore,
	spellingLists SpellingListStore,
	registry *curriculum.Registry,
	ai TextCompleter,
	archive RawArchiver,
) *AssignmentService {
	return &AssignmentService{
		Assignments:   assignments,
		Bindings:      bindings,
		Students:      students,
		SpellingLists: spellingLists,
		Registry:      registry,
		AI:            ai,
		Archive:       archive,
	}
}

type GenerateRequest struct {
	Subject        string `json:"subject" binding:"required"`
	GradeLevel     string `json:"gradeLevel" binding:"required"`
	Topic          string `json:"topic" binding:"required"`
	SubLevel       *int   `json:"subLevel"`
	VideoURL       string `json:"videoUrl" binding:"omitempty,url"`
	SpellingListID string `json:"spellingListId"`
}

// generation is the outcome of one AI round: usable content, or fallback
// content plus whatever raw text the model produced.
type generation struct {
	content  model.Content
	fallback bool
	raw      string
}

// Generate builds and stores a new assignment. The AI is asked once; any
// failure, timeout or unusable reply yields fallback content instead of an
// error. Only persistence failures surface.
func (s *AssignmentService) Generate(ctx context.Context, teacherID string, req GenerateRequest) (*model.Assignment, error) {
	subject := strings.TrimSpace(req.Subject)
	topic := strings.TrimSpace(req.Topic)

	var words []string
	if req.SpellingListID != "" {
		list, err := s.SpellingLists.FindOwned(ctx, req.SpellingListID, teacherID)
		if err != nil {
			return nil, err
		}
		words = list.Words
	}

	strategy := s.Registry.Resolve(subject, req.SubLevel)
	gen := s.generate(ctx, strategy, curriculum.PromptInput{
		Subject:       subject,
		GradeLevel:    req.GradeLevel,
		Topic:         topic,
		VideoURL:      req.VideoURL,
		SpellingWords: words,
	})

	a := &model.Assignment{
		UUIDBase:       model.UUIDBase{ID: model.GenerateUUID()},
		Title:          assignmentTitle(subject, topic, req.SubLevel),
		Subject:        subject,
		GradeLevel:     req.GradeLevel,
		Topic:          topic,
		SubLevel:       req.SubLevel,
		VideoURL:       req.VideoURL,
		SpellingListID: req.SpellingListID,
		Content:        datatypes.NewJSONType(gen.content),
		TeacherID:      teacherID,
		Fallback:       gen.fallback,
	}
	if err := s.Assignments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("save assignment: %w", err)
	}

	s.archive(ctx, a.ID, gen)
	logger.Log.Info("Assignment generated",
		zap.String("assignmentId", a.ID),
		zap.String("teacherId", teacherID),
		zap.String("strategy", strategy.Key),
		zap.Bool("fallback", gen.fallback),
	)
	return a, nil
}

// Regenerate reruns generation for an existing assignment with its stored
// classification and replaces the content. Once any student has completed
// it, its content is frozen.
func (s *AssignmentService) Regenerate(ctx context.Context, teacherID, assignmentID string) (*model.Assignment, error) {
	a, err := s.Assignments.FindOwned(ctx, assignmentID, teacherID)
	if err != nil {
		return nil, err
	}

	completed, err := s.Bindings.CountCompleted(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if completed > 0 {
		return nil, util.ErrAssignmentInUse
	}

	words, err := s.regenerationWords(ctx, a)
	if err != nil {
		return nil, err
	}

	strategy := s.Registry.Resolve(a.Subject, a.SubLevel)
	gen := s.generate(ctx, strategy, curriculum.PromptInput{
		Subject:       a.Subject,
		GradeLevel:    a.GradeLevel,
		Topic:         a.Topic,
		VideoURL:      a.VideoURL,
		SpellingWords: words,
	})

	// The store refuses the write if a submission completed meanwhile.
	a.Content = datatypes.NewJSONType(gen.content)
	a.Fallback = gen.fallback
	if err := s.Assignments.UpdateContent(ctx, a); err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}

	s.archive(ctx, a.ID, gen)
	logger.Log.Info("Assignment regenerated", zap.String("assignmentId", a.ID), zap.Bool("fallback", gen.fallback))
	return a, nil
}

// regenerationWords prefers the spelling list the assignment was generated
// from. A list deleted since then leaves the stored word list.
func (s *AssignmentService) regenerationWords(ctx context.Context, a *model.Assignment) ([]string, error) {
	if a.SpellingListID != "" {
		list, err := s.SpellingLists.FindOwned(ctx, a.SpellingListID, a.TeacherID)
		switch {
		case err == nil:
			return list.Words, nil
		case !errors.Is(err, util.ErrNotFound):
			return nil, err
		}
	}
	if sp := a.Content.Data().Spelling(); sp != nil {
		return sp.Words, nil
	}
	return nil, nil
}

func (s *AssignmentService) generate(ctx context.Context, strategy curriculum.Strategy, in curriculum.PromptInput) generation {
	ctx, span := tracing.StartSpan(ctx, "assignment.generate",
		attribute.String("strategy", strategy.Key),
		attribute.String("subject", in.Subject),
	)
	defer span.End()

	raw, err := s.AI.Complete(llm.WithPurpose(ctx, "assignment"), strategy.Prompt(in))
	if err != nil {
		logger.Log.Warn("AI generation failed, using fallback content",
			zap.String("strategy", strategy.Key),
			zap.String("topic", in.Topic),
			zap.Error(err),
		)
		monitoring.GenerationCounter.WithLabelValues(strategy.Key, "error_fallback").Inc()
		span.SetAttributes(attribute.Bool("fallback", true))
		return generation{content: strategy.Fallback(in.Topic), fallback: true}
	}

	out := curriculum.ParseDetailed(raw, strategy, in.Topic)
	content, fallback, reason := out.Content, out.Fallback, out.Reason
	if !fallback {
		var err error
		if content, err = withSpellingWords(out.Content, in.SpellingWords); err != nil {
			content, fallback, reason = strategy.Fallback(in.Topic), true, err.Error()
		}
	}
	if fallback {
		logger.Log.Warn("AI response unusable, using fallback content",
			zap.String("strategy", strategy.Key),
			zap.String("topic", in.Topic),
			zap.String("reason", reason),
			zap.Int("rawLength", len(raw)),
		)
		monitoring.GenerationCounter.WithLabelValues(strategy.Key, "parse_fallback").Inc()
		span.SetAttributes(attribute.Bool("fallback", true))
		return generation{content: content, fallback: true, raw: raw}
	}

	monitoring.GenerationCounter.WithLabelValues(strategy.Key, "ai").Inc()
	return generation{content: content}
}

// withSpellingWords makes the teacher's list the word list of spelling
// content. Every exercise must spell a word from the list.
func withSpellingWords(c model.Content, words []string) (model.Content, error) {
	sp := c.Spelling()
	if sp == nil || len(words) == 0 {
		return c, nil
	}
	for i, e := range sp.Exercises {
		answer := strings.TrimSpace(e.Answer)
		if !slices.ContainsFunc(words, func(w string) bool { return strings.EqualFold(strings.TrimSpace(w), answer) }) {
			return c, fmt.Errorf("spelling exercise %d spells %q, which is not on the list", i, answer)
		}
	}
	out := *sp
	out.Words = append([]string(nil), words...)
	return model.NewSpellingContent(out), nil
}

func (s *AssignmentService) archive(ctx context.Context, assignmentID string, gen generation) {
	if !gen.fallback || gen.raw == "" || s.Archive == nil {
		return
	}
	if err := s.Archive.ArchiveRawOutput(ctx, assignmentID, gen.raw); err != nil {
		logger.Log.Warn("Failed to archive raw AI output", zap.String("assignmentId", assignmentID), zap.Error(err))
	}
}

func assignmentTitle(subject, topic string, subLevel *int) string {
	title := fmt.Sprintf("%s - %s", subject, topic)
	if subLevel != nil {
		title += fmt.Sprintf(" (Level %d)", *subLevel)
	}
	return title
}

func (s *AssignmentService) List(ctx context.Context, teacherID string) ([]model.Assignment, error) {
	return s.Assignments.ListByTeacher(ctx, teacherID)
}

func (s *AssignmentService) Get(ctx context.Context, teacherID, assignmentID string) (*model.Assignment, error) {
	return s.Assignments.FindOwned(ctx, assignmentID, teacherID)
}

func (s *AssignmentService) Delete(ctx context.Context, teacherID, assignmentID string) error {
	if err := s.Assignments.Delete(ctx, assignmentID, teacherID); err != nil {
		return err
	}
	if s.Archive != nil {
		if err := s.Archive.DropRawOutput(ctx, assignmentID); err != nil {
			logger.Log.Warn("Failed to drop raw AI output", zap.String("assignmentId", assignmentID), zap.Error(err))
		}
	}
	return nil
}

// RawOutput returns the archived model text of an owned assignment whose
// generation fell back. ErrNotFound when nothing was archived.
func (s *AssignmentService) RawOutput(ctx context.Context, teacherID, assignmentID string) (string, error) {
	if _, err := s.Assignments.FindOwned(ctx, assignmentID, teacherID); err != nil {
		return "", err
	}
	if s.Archive == nil {
		return "", util.ErrNotFound
	}
	return s.Archive.RawOutput(ctx, assignmentID)
}

type AssignRequest struct {
	AssignmentID string   `json:"assignmentId" binding:"required"`
	StudentIDs   []string `json:"studentIds" binding:"required,min=1,dive,required"`
}

type SkippedStudent struct {
	StudentID string `json:"studentId"`
	Reason    string `json:"reason"`
}

type AssignResult struct {
	Assigned []string         `json:"assigned"`
	Skipped  []SkippedStudent `json:"skipped"`
}

// Assign binds an owned assignment to the given students. Students the
// teacher does not own, or who already hold the assignment, are skipped and
// reported rather than failing the whole request.
func (s *AssignmentService) Assign(ctx context.Context, teacherID string, req AssignRequest) (*AssignResult, error) {
	a, err := s.Assignments.FindOwned(ctx, req.AssignmentID, teacherID)
	if err != nil {
		return nil, err
	}

	result := &AssignResult{Assigned: []string{}, Skipped: []SkippedStudent{}}
	seen := make(map[string]bool, len(req.StudentIDs))
	now := time.Now()

	for _, studentID := range req.StudentIDs {
		if seen[studentID] {
			continue
		}
		seen[studentID] = true

		if _, err := s.Students.FindOwned(ctx, studentID, teacherID); err != nil {
			if errors.Is(err, util.ErrNotFound) {
				result.Skipped = append(result.Skipped, SkippedStudent{StudentID: studentID, Reason: "unknown student"})
				continue
			}
			return nil, err
		}

		exists, err := s.Bindings.Exists(ctx, a.ID, studentID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped = append(result.Skipped, SkippedStudent{StudentID: studentID, Reason: "already assigned"})
			continue
		}

		binding := &model.StudentAssignment{
			AssignmentID: a.ID,
			StudentID:    studentID,
			TeacherID:    teacherID,
			State:        model.StateAssigned,
			AssignedAt:   now,
		}
		if err := s.Bindings.Create(ctx, binding); err != nil {
			return nil, fmt.Errorf("assign to %s: %w", studentID, err)
		}
		result.Assigned = append(result.Assigned, studentID)
	}

	logger.Log.Info("Assignment assigned",
		zap.String("assignmentId", a.ID),
		zap.Int("assigned", len(result.Assigned)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// StudentAssignmentView is what a student sees of one binding.
type StudentAssignmentView struct {
	ID           string                `json:"id"`
	AssignmentID string                `json:"assignmentId"`
	Title        string                `json:"title"`
	Subject      string                `json:"subject"`
	GradeLevel   string                `json:"gradeLevel"`
	Topic        string                `json:"topic"`
	SubLevel     *int                  `json:"subLevel,omitempty"`
	VideoURL     string                `json:"videoUrl,omitempty"`
	Content      model.Content         `json:"content"`
	State        model.AssignmentState `json:"state"`
	AssignedAt   time.Time             `json:"assignedAt"`
	SubmittedAt  *time.Time            `json:"submittedAt,omitempty"`
	Score        *float64              `json:"score,omitempty"`
}

// ListForStudent returns the student's bindings with their assignments.
// Answer keys stay hidden until the binding is completed. A binding whose
// assignment has vanished is skipped.
func (s *AssignmentService) ListForStudent(ctx context.Context, studentID string) ([]StudentAssignmentView, error) {
	bindings, err := s.Bindings.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(bindings))
	for _, b := range bindings {
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

	views := make([]StudentAssignmentView, 0, len(bindings))
	for _, b := range bindings {
		a, ok := byID[b.AssignmentID]
		if !ok {
			logger.Log.Warn("Binding references a missing assignment",
				zap.String("studentAssignmentId", b.ID),
				zap.String("assignmentId", b.AssignmentID),
			)
			continue
		}

		content := a.Content.Data()
		if !b.Completed() {
			content = content.WithoutAnswerKeys()
		}
		views = append(views, StudentAssignmentView{
			ID:           b.ID,
			AssignmentID: a.ID,
			Title:        a.Title,
			Subject:      a.Subject,
			GradeLevel:   a.GradeLevel,
			Topic:        a.Topic,
			SubLevel:     a.SubLevel,
			VideoURL:     a.VideoURL,
			Content:      content,
			State:        b.State,
			AssignedAt:   b.AssignedAt,
			SubmittedAt:  b.SubmittedAt,
			Score:        b.Score,
		})
	}
	return views, nil
}
