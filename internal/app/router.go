package app

import (
	"homeschool_hub_backend/internal/middleware"
	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware())
	{
		a.registerSharedRoutes(authGroup, c)
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/teacher/register", c.auth.RegisterTeacher)
		public.POST("/auth/teacher/login", c.auth.LoginTeacher)
		public.POST("/auth/student/login", c.auth.LoginStudent)
	}
}

// registerSharedRoutes serves both roles; the services scope by caller.
func (a *App) registerSharedRoutes(group *gin.RouterGroup, c *controllers) {
	shared := group.Group("")
	shared.Use(middleware.RoleMiddleware(model.Teacher, model.Student))
	{
		shared.GET("/rewards", c.points.ListRewards)

		shared.POST("/messages", c.message.Send)
		shared.GET("/messages", c.message.Conversations)
		shared.GET("/messages/:contactId", c.message.Conversation)
		shared.GET("/ws", c.message.HandleWS)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	student := group.Group("/student")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/assignments", c.assignment.ListForStudent)
		student.POST("/assignments/submit", c.assignment.Submit)
		student.GET("/points", c.points.StudentPoints)
		student.POST("/redeem", c.points.Redeem)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/students", c.student.Create)
		teacher.GET("/students", c.student.List)
		teacher.DELETE("/students/:id", c.student.Delete)

		teacher.POST("/assignments/generate", c.assignment.Generate)
		teacher.POST("/assignments/assign", c.assignment.Assign)
		teacher.GET("/assignments", c.assignment.List)
		teacher.GET("/assignments/:id", c.assignment.Get)
		teacher.DELETE("/assignments/:id", c.assignment.Delete)
		teacher.POST("/assignments/:id/regenerate", c.assignment.Regenerate)
		teacher.GET("/assignments/:id/raw-output", c.assignment.RawOutput)

		teacher.GET("/gradebook", c.curriculum.Gradebook)

		teacher.GET("/lesson-plans", c.curriculum.ListLessonPlans)
		teacher.POST("/lesson-plans/generate", c.curriculum.GenerateLessonPlan)

		teacher.POST("/spelling-lists", c.curriculum.CreateSpellingList)
		teacher.GET("/spelling-lists", c.curriculum.ListSpellingLists)
		teacher.GET("/spelling-lists/:id", c.curriculum.GetSpellingList)
		teacher.PUT("/spelling-lists/:id", c.curriculum.UpdateSpellingList)
		teacher.DELETE("/spelling-lists/:id", c.curriculum.DeleteSpellingList)

		teacher.POST("/rewards", c.points.CreateReward)
		teacher.PUT("/rewards/:id", c.points.UpdateReward)
		teacher.DELETE("/rewards/:id", c.points.DeleteReward)
		teacher.POST("/teacher/initialize-rewards", c.points.InitializeRewards)
		teacher.POST("/teacher/points", c.points.Adjust)
		teacher.GET("/teacher/student-points", c.points.Overview)
	}
}
