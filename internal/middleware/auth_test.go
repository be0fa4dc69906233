package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homeschool_hub_backend/internal/config"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

func newRouter(roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})
	r.GET("/guarded", AuthMiddleware(), RoleMiddleware(roles...), func(c *gin.Context) {
		u := util.GetUserFromContext(c)
		c.String(http.StatusOK, u.UserID+"|"+u.TeacherID)
	})
	return r
}

func token(t *testing.T, id string, role model.UserRole, teacherID string, ttl time.Duration) string {
	t.Helper()
	tok, err := util.GenerateJWT(id, role, teacherID, testSecret, ttl)
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(model.Teacher, model.Student)

	tests := []struct {
		name   string
		path   string
		bearer string
		status int
		body   string
	}{
		{"no token", "/guarded", "", http.StatusUnauthorized, ""},
		{"garbage token", "/guarded", "not-a-jwt", http.StatusUnauthorized, ""},
		{"expired token", "/guarded", token(t, "t1", model.Teacher, "", -time.Minute), http.StatusUnauthorized, ""},
		{"header token", "/guarded", token(t, "t1", model.Teacher, "", time.Hour), http.StatusOK, "t1|"},
		{"query token", "/guarded?token=" + token(t, "s1", model.Student, "t1", time.Hour), "", http.StatusOK, "s1|t1"},
		{"student without teacher", "/guarded", token(t, "s1", model.Student, "", time.Hour), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, tt.bearer)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := newRouter(model.Teacher)
	tok, err := util.GenerateJWT("t1", model.Teacher, "", "another-secret", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/guarded", tok).Code)
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(model.Teacher)

	assert.Equal(t, http.StatusOK, do(r, "/guarded", token(t, "t1", model.Teacher, "", time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/guarded", token(t, "s1", model.Student, "t1", time.Hour)).Code)
}
