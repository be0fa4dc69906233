package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"homeschool_hub_backend/internal/config"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

func TestAuth_TeacherRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeTeachers(), newFakeStudents(), testConfig())
	ctx := context.Background()

	res, err := svc.RegisterTeacher(ctx, RegisterRequest{Email: " Ada@Example.com ", Password: "secret1", FirstName: "Ada", LastName: "L"})
	require.NoError(t, err)
	user := res.User.(*model.User)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)

	claims, err := util.ParseJWT(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)

	_, err = svc.RegisterTeacher(ctx, RegisterRequest{Email: "ada@example.com", Password: "x", FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = svc.LoginTeacher(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.LoginTeacher(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = svc.LoginTeacher(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestAuth_StudentLoginCarriesTeacher(t *testing.T) {
	students := newFakeStudents()
	studentSvc := NewStudentService(students)
	auth := NewAuthService(newFakeTeachers(), students, testConfig())
	ctx := context.Background()

	s, err := studentSvc.Create(ctx, "t1", CreateStudentRequest{FirstName: "Sam", LastName: "K", Username: "sam", Password: "pass"})
	require.NoError(t, err)

	_, err = studentSvc.Create(ctx, "t2", CreateStudentRequest{FirstName: "Sam", LastName: "Z", Username: "sam", Password: "pass"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	res, err := auth.LoginStudent(ctx, "sam", "pass")
	require.NoError(t, err)
	claims, err := util.ParseJWT(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, s.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "t1", claims.TeacherID)

	_, err = auth.LoginStudent(ctx, "sam", "nope")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestStudents_DeleteRequiresOwnership(t *testing.T) {
	svc := NewStudentService(newFakeStudents(student("s1", "t1")))
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "t2", "s1"), util.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "t1", "s1"))

	list, err := svc.List(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLessonPlan_Generate(t *testing.T) {
	plans := &fakeLessonPlans{}
	ai := &stubCompleter{reply: "1. Learning Objectives..."}
	svc := NewLessonPlanService(plans, ai)

	plan, err := svc.Generate(context.Background(), "t1", LessonPlanRequest{Subject: "Science", GradeLevel: "3rd Grade", Topic: "Volcanoes"})
	require.NoError(t, err)
	assert.Equal(t, "Science - Volcanoes", plan.Title)
	assert.Equal(t, "1. Learning Objectives...", plan.Content)
	assert.Contains(t, ai.prompts[0], "Extension Activities")
	assert.Contains(t, ai.prompts[0], "3rd Grade students in Science on the topic: Volcanoes")

	list, err := svc.List(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLessonPlan_FallbackText(t *testing.T) {
	svc := NewLessonPlanService(&fakeLessonPlans{}, &stubCompleter{err: errors.New("down")})

	plan, err := svc.Generate(context.Background(), "t1", LessonPlanRequest{Subject: "Math", GradeLevel: "K", Topic: "Counting"})
	require.NoError(t, err)
	assert.Equal(t, "Basic lesson plan for Math - Counting at K level. This lesson would cover fundamental concepts and include hands-on activities.", plan.Content)
}

func tenWords() []string {
	return strings.Fields("one two three four five six seven eight nine ten")
}

func TestSpellingLists(t *testing.T) {
	svc := NewSpellingListService(newFakeSpellingLists(), newFakeStudents(student("s1", "t1"), student("x", "t2")))
	ctx := context.Background()

	_, err := svc.Create(ctx, "t1", SpellingListRequest{Name: "Short", Words: []string{"a", "b"}, StudentID: "s1"})
	assert.ErrorIs(t, err, util.ErrInvalidWordList)

	withBlank := tenWords()
	withBlank[3] = "  "
	_, err = svc.Create(ctx, "t1", SpellingListRequest{Name: "Blank", Words: withBlank, StudentID: "s1"})
	assert.ErrorIs(t, err, util.ErrInvalidWordList)

	_, err = svc.Create(ctx, "t1", SpellingListRequest{Name: "Theirs", Words: tenWords(), StudentID: "x"})
	assert.ErrorIs(t, err, util.ErrNotFound)

	list, err := svc.Create(ctx, "t1", SpellingListRequest{Name: "Week 1", Words: tenWords(), StudentID: "s1"})
	require.NoError(t, err)
	assert.Len(t, list.Words, 10)

	words := tenWords()
	words[0] = "zero"
	updated, err := svc.Update(ctx, "t1", list.ID, SpellingListRequest{Name: "Week 1b", Words: words, StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "zero", updated.Words[0])

	_, err = svc.Get(ctx, "t2", list.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "t1", list.ID))
}

func TestGradebook(t *testing.T) {
	ctx := context.Background()
	students := newFakeStudents(student("s1", "t1"), student("s2", "t1"))
	bindings := newFakeBindings()
	assignments := newFakeAssignments()

	a := &model.Assignment{Title: "Math - Sums", Subject: "Math", TeacherID: "t1", Content: datatypes.NewJSONType(model.NewQuizContent(nil))}
	require.NoError(t, assignments.Create(ctx, a))
	gone := &model.Assignment{Title: "Gone", Subject: "Art", TeacherID: "t1"}
	require.NoError(t, assignments.Create(ctx, gone))

	score := 90.0
	now := time.Now()
	require.NoError(t, bindings.Create(ctx, &model.StudentAssignment{AssignmentID: a.ID, StudentID: "s1", TeacherID: "t1", State: model.StateCompleted, Score: &score, SubmittedAt: &now}))
	require.NoError(t, bindings.Create(ctx, &model.StudentAssignment{AssignmentID: gone.ID, StudentID: "s1", TeacherID: "t1", State: model.StateCompleted, Score: &score, SubmittedAt: &now}))
	require.NoError(t, bindings.Create(ctx, &model.StudentAssignment{AssignmentID: a.ID, StudentID: "s2", TeacherID: "t1", State: model.StateAssigned}))
	require.NoError(t, assignments.Delete(ctx, gone.ID, "t1"))

	rows, err := NewGradebookService(students, bindings, assignments).Gradebook(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "s1", rows[0].Student.ID)
	require.Len(t, rows[0].Assignments, 1)
	assert.Equal(t, "Math - Sums", rows[0].Assignments[0].AssignmentTitle)
	assert.Equal(t, 90.0, *rows[0].Assignments[0].Score)

	assert.Equal(t, "s2", rows[1].Student.ID)
	assert.Empty(t, rows[1].Assignments)
}
