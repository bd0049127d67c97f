package app

import (
	"edumarket_backend/internal/config"
	"edumarket_backend/internal/middleware"
	"edumarket_backend/internal/model"
	"edumarket_backend/pkg/monitoring"

	"edumarket_backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	api.GET("/health", c.health.HealthCheck)
	api.POST("/register", c.auth.Register)
	api.POST("/login", c.auth.Login)

	// Catalog browsing works without a session; the optional token only
	// enriches responses for signed-in users.
	browse := api.Group("")
	browse.Use(middleware.TryAuthMiddleware(cfg))
	{
		browse.GET("/courses", c.catalog.ListCourses)
		browse.GET("/courses/:type/:slug", c.catalog.GetCourseDetail)
		browse.GET("/categories", c.catalog.ListCategories)
		browse.GET("/instructors/:id", c.catalog.GetInstructor)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	authed.Use(middleware.ActivityMiddleware(repos.user))
	{
		authed.GET("/profile", c.auth.GetProfile)
		authed.PUT("/user/profile", c.auth.UpdateProfile)

		authed.POST("/courses/:id/enroll", c.enrollment.Enroll)

		my := authed.Group("/my")
		{
			my.GET("/courses", c.enrollment.MyCourses)
			my.GET("/courses/:courseId/progress", c.enrollment.GetProgress)
			my.GET("/courses/:courseId/curriculum", c.learning.GetCurriculum)
			my.GET("/courses/:courseId/lessons/:lessonId/navigation", c.learning.GetNavigation)
			my.POST("/courses/:courseId/lessons/:lessonId/complete", c.learning.CompleteLesson)
			my.GET("/certificates", c.enrollment.MyCertificates)
			my.GET("/certificates/:courseId", c.enrollment.GetCertificate)
		}

		playback := authed.Group("/playback")
		{
			playback.POST("/load", c.playback.Load)
			playback.GET("/:sessionId", c.playback.Status)
			playback.POST("/:sessionId/play", c.playback.Play)
			playback.POST("/:sessionId/pause", c.playback.Pause)
			playback.POST("/:sessionId/position", c.playback.UpdatePosition)
		}
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.RoleMiddleware(model.RoleInstructor))
	{
		admin.POST("/catalog/refresh", c.catalog.RefreshCatalog)
		admin.POST("/courses", c.courseAdmin.CreateCourse)
		admin.PUT("/courses/:id", c.courseAdmin.UpdateCourse)
		admin.POST("/courses/:id/publish", c.courseAdmin.PublishCourse)
		admin.POST("/courses/:id/modules", c.courseAdmin.AddModule)
		admin.POST("/courses/:id/sessions", c.courseAdmin.ScheduleSession)
		admin.POST("/courses/:id/cover", c.courseAdmin.UploadCourseCover)
		admin.POST("/modules/:moduleId/lessons", c.courseAdmin.AddLesson)
		admin.PUT("/modules/:moduleId/lessons/reorder", c.courseAdmin.ReorderLessons)
		admin.PUT("/sessions/:sessionId/status", c.courseAdmin.TransitionSession)
		admin.POST("/lessons/:id/video", c.courseAdmin.UploadLessonVideo)
	}
}
