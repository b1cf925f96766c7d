package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/controllers"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth           *controllers.AuthController
	Membership     *controllers.MembershipController
	Contact        *controllers.ContactController
	JobApplication *controllers.JobApplicationController
	Job            *controllers.JobController
	Activity       *controllers.ActivityController
	Board          *controllers.BoardController
	Career         *controllers.CareerController
	SuccessStory   *controllers.SuccessStoryController
	Stats          *controllers.StatsController
}

// Options holds the cross-cutting pieces the routes need
type Options struct {
	AuthMiddleware *middleware.AuthMiddleware
	// SubmissionLimiter throttles the public forms per client address
	SubmissionLimiter *middleware.IPRateLimiter
	// LocalMediaDir is served under /uploads when media is stored on local disk
	LocalMediaDir string
	// HealthCheck reports whether the database answers; nil skips the check
	HealthCheck func(ctx context.Context) error
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Controllers, opts Options) {
	api := router.Group("/api")

	if opts.LocalMediaDir != "" {
		router.Static("/uploads", opts.LocalMediaDir)
	}

	// --- Public submissions ---
	limited := api.Group("")
	limited.Use(middleware.RateLimit(opts.SubmissionLimiter))
	{
		limited.POST("/membership", h.Membership.Submit)
		limited.POST("/contact", h.Contact.Submit)
		limited.POST("/jobs/:id/apply", h.JobApplication.Apply)
	}

	// --- Public reads ---
	activities := api.Group("/activities")
	{
		activities.GET("", h.Activity.ListPublic)
		activities.GET("/categories", h.Activity.Categories)
		activities.GET("/:id", h.Activity.GetPublic)
	}

	api.GET("/board", h.Board.PublicBoard)

	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.Job.ListPublic)
		jobs.GET("/:id", h.Job.GetPublic)
	}

	career := api.Group("/career")
	{
		career.GET("/guidelines", h.Career.ListGuidelines)
		career.POST("/guidelines/:id/view", h.Career.RecordGuidelineView)
		career.GET("/interview-tips", h.Career.ListInterviewTips)
		career.POST("/interview-tips/:id/view", h.Career.RecordInterviewTipView)
		career.GET("/cv-templates", h.Career.ListCVTemplates)
		career.POST("/cv-templates/:id/download", h.Career.RecordCVTemplateDownload)
	}

	api.GET("/success-stories", h.SuccessStory.ListPublic)

	// --- Admin session ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/session", opts.AuthMiddleware.RequireAdmin(), h.Auth.Session)
	}

	// --- Admin dashboard ---
	admin := api.Group("/admin")
	admin.Use(opts.AuthMiddleware.RequireAdmin())
	{
		admin.GET("/stats", h.Stats.Dashboard)

		admin.GET("/membership", h.Membership.List)
		admin.PUT("/membership/:id/status", h.Membership.UpdateStatus)
		admin.DELETE("/membership/:id", h.Membership.Delete)

		admin.GET("/contact", h.Contact.List)
		admin.PUT("/contact/:id/status", h.Contact.UpdateStatus)
		admin.DELETE("/contact/:id", h.Contact.Delete)

		admin.GET("/job-applications", h.JobApplication.List)
		admin.PUT("/job-applications/:id/status", h.JobApplication.UpdateStatus)
		admin.DELETE("/job-applications/:id", h.JobApplication.Delete)

		admin.GET("/jobs", h.Job.ListAdmin)
		admin.POST("/jobs", h.Job.Create)
		admin.PUT("/jobs/:id", h.Job.Update)
		admin.DELETE("/jobs/:id", h.Job.Delete)

		admin.GET("/activities", h.Activity.ListAdmin)
		admin.POST("/activities", h.Activity.Create)
		admin.GET("/activities/:id", h.Activity.GetAdmin)
		admin.PUT("/activities/:id", h.Activity.Update)
		admin.DELETE("/activities/:id", h.Activity.Delete)
		admin.POST("/activities/:id/images", h.Activity.AddImages)
		admin.DELETE("/activities/:id/images/:imageId", h.Activity.DeleteImage)

		admin.GET("/board/categories", h.Board.ListCategories)
		admin.POST("/board/categories", h.Board.CreateCategory)
		admin.PUT("/board/categories/:id", h.Board.UpdateCategory)
		admin.DELETE("/board/categories/:id", h.Board.DeleteCategory)
		admin.GET("/board/members", h.Board.ListMembers)
		admin.POST("/board/members", h.Board.CreateMember)
		admin.PUT("/board/members/:id", h.Board.UpdateMember)
		admin.DELETE("/board/members/:id", h.Board.DeleteMember)

		admin.GET("/career/guidelines", h.Career.ListGuidelinesAdmin)
		admin.POST("/career/guidelines", h.Career.CreateGuideline)
		admin.PUT("/career/guidelines/:id", h.Career.UpdateGuideline)
		admin.DELETE("/career/guidelines/:id", h.Career.DeleteGuideline)
		admin.GET("/career/interview-tips", h.Career.ListInterviewTipsAdmin)
		admin.POST("/career/interview-tips", h.Career.CreateInterviewTip)
		admin.PUT("/career/interview-tips/:id", h.Career.UpdateInterviewTip)
		admin.DELETE("/career/interview-tips/:id", h.Career.DeleteInterviewTip)
		admin.GET("/career/cv-templates", h.Career.ListCVTemplatesAdmin)
		admin.POST("/career/cv-templates", h.Career.CreateCVTemplate)
		admin.PUT("/career/cv-templates/:id", h.Career.UpdateCVTemplate)
		admin.DELETE("/career/cv-templates/:id", h.Career.DeleteCVTemplate)

		admin.GET("/success-stories", h.SuccessStory.ListAdmin)
		admin.POST("/success-stories", h.SuccessStory.Create)
		admin.PUT("/success-stories/:id", h.SuccessStory.Update)
		admin.DELETE("/success-stories/:id", h.SuccessStory.Delete)
	}

	// Health check endpoint (public)
	api.GET("/health", func(c *gin.Context) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("Database unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Route not found"))
	})
}
