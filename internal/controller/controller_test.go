package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/service"
	"homeschool_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err     error
		status  int
		message string
	}{
		{util.ErrInsufficientPoints, http.StatusBadRequest, "Not enough points"},
		{fmt.Errorf("load: %w", util.ErrNotFound), http.StatusNotFound, "Resource not found"},
		{util.ErrAlreadySubmitted, http.StatusConflict, "Assignment already submitted"},
		{util.ErrAssignmentInUse, http.StatusConflict, "Assignment already has completed submissions"},
		{util.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect credentials"},
		{util.ErrEmailRegistered, http.StatusBadRequest, "Email already registered"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(ctx, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body util.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

type memBindings struct {
	items map[string]model.StudentAssignment
}

func (m *memBindings) Create(_ context.Context, sa *model.StudentAssignment) error {
	m.items[sa.ID] = *sa
	return nil
}

func (m *memBindings) FindByID(_ context.Context, id string) (*model.StudentAssignment, error) {
	sa, ok := m.items[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &sa, nil
}

func (m *memBindings) Exists(context.Context, string, string) (bool, error) { return false, nil }
func (m *memBindings) CountCompleted(context.Context, string) (int64, error) { return 0, nil }
func (m *memBindings) ListByStudent(context.Context, string) ([]model.StudentAssignment, error) {
	return nil, nil
}
func (m *memBindings) ListCompletedByTeacher(context.Context, string) ([]model.StudentAssignment, error) {
	return nil, nil
}

func (m *memBindings) MarkCompleted(_ context.Context, id string, _ model.SubmissionAnswers, score float64, at time.Time) (bool, error) {
	sa, ok := m.items[id]
	if !ok || sa.Completed() {
		return false, nil
	}
	sa.State = model.StateCompleted
	sa.Score = &score
	sa.SubmittedAt = &at
	m.items[id] = sa
	return true, nil
}

type memAssignments struct {
	items map[string]model.Assignment
}

func (m *memAssignments) Create(_ context.Context, a *model.Assignment) error {
	m.items[a.ID] = *a
	return nil
}

func (m *memAssignments) FindByID(_ context.Context, id string) (*model.Assignment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return &a, nil
}

func (m *memAssignments) FindOwned(ctx context.Context, id, teacherID string) (*model.Assignment, error) {
	a, err := m.FindByID(ctx, id)
	if err != nil || a.TeacherID != teacherID {
		return nil, util.ErrNotFound
	}
	return a, nil
}

func (m *memAssignments) FindByIDs(context.Context, []string) ([]model.Assignment, error) {
	return nil, nil
}
func (m *memAssignments) ListByTeacher(context.Context, string) ([]model.Assignment, error) {
	return nil, nil
}
func (m *memAssignments) UpdateContent(context.Context, *model.Assignment) error { return nil }
func (m *memAssignments) Delete(context.Context, string, string) error            { return nil }

type countingAwarder struct{ points int }

func (c *countingAwarder) Award(_ context.Context, _, _, _ string, points int, _ string) error {
	c.points += points
	return nil
}

func newSubmitRouter(t *testing.T, userID string) (*gin.Engine, *countingAwarder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := []string{"a", "b", "c", "d"}
	assignments := &memAssignments{items: map[string]model.Assignment{
		"a1": {
			UUIDBase:  model.UUIDBase{ID: "a1"},
			Title:     "Math - Sums",
			TeacherID: "t1",
			Content: datatypes.NewJSONType(model.NewQuizContent([]model.MultipleChoiceQuestion{
				{Question: "1+1", Options: opts, CorrectAnswer: 1},
				{Question: "2+2", Options: opts, CorrectAnswer: 3},
			})),
		},
	}}
	bindings := &memBindings{items: map[string]model.StudentAssignment{
		"sa1": {UUIDBase: model.UUIDBase{ID: "sa1"}, AssignmentID: "a1", StudentID: "s1", TeacherID: "t1", State: model.StateAssigned},
	}}
	awarder := &countingAwarder{}

	ctrl := NewAssignmentController(nil, service.NewSubmissionService(bindings, assignments, awarder))
	r := gin.New()
	r.POST("/submit", func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: userID, Role: model.Student, TeacherID: "t1"})
		c.Next()
	}, ctrl.Submit)
	return r, awarder
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit_GradesOnceThenConflicts(t *testing.T) {
	r, awarder := newSubmitRouter(t, "s1")
	body := gin.H{"studentAssignmentId": "sa1", "answers": gin.H{"multipleChoice": []int{1, 3}}}

	w := postJSON(r, "/submit", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Score         float64 `json:"score"`
			PointsAwarded int     `json:"pointsAwarded"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100.0, resp.Data.Score)
	assert.Equal(t, 5, resp.Data.PointsAwarded)
	assert.Equal(t, 5, awarder.points)

	w = postJSON(r, "/submit", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 5, awarder.points)
}

func TestSubmit_OtherStudentGetsNotFound(t *testing.T) {
	r, _ := newSubmitRouter(t, "s2")

	w := postJSON(r, "/submit", gin.H{"studentAssignmentId": "sa1", "answers": gin.H{}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmit_RejectsMissingID(t *testing.T) {
	r, _ := newSubmitRouter(t, "s1")

	w := postJSON(r, "/submit", gin.H{"answers": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
