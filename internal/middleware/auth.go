package middleware

import (
	"net/http"
	"slices"
	"strings"

	"homeschool_hub_backend/internal/config"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken reads the Authorization header, then the token query parameter
// used by websocket upgrades that cannot set headers.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if tok, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	return c.Query("token")
}

// AuthMiddleware puts the verified *util.Claims under "user". Student tokens
// must name their owning teacher.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c)
		if tok == "" {
			util.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		cfg := c.MustGet("config").(*config.Config)
		claims, err := util.ParseJWT(tok, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("Rejected token", zap.String("route", c.FullPath()), zap.Error(err))
			util.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if claims.Role == model.Student && claims.TeacherID == "" {
			logger.Log.Warn("Student token without teacher binding", zap.String("userId", claims.UserID))
			util.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware is the capability guard of a route group.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !slices.Contains(roles, user.Role) {
			util.Abort(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}
