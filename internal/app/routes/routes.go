package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tahmid/qpaper/internal/app/controllers"
	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/middleware"
)

// Controllers bundles every HTTP controller for route registration.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Question   *controllers.QuestionController
	Department *controllers.DepartmentController
	Course     *controllers.CourseController
	Semester   *controllers.SemesterController
	ExamType   *controllers.ExamTypeController
	Contact    *controllers.ContactController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls Controllers,
	authMiddleware *middleware.AuthMiddleware,
	registry *prometheus.Registry,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrls.Auth.Register)
		auth.POST("/login", ctrls.Auth.Login)
		auth.POST("/refresh", ctrls.Auth.RefreshToken)
		auth.POST("/logout", ctrls.Auth.Logout)
	}

	questions := v1.Group("/questions")
	{
		questions.GET("", ctrls.Question.List)
		questions.GET("/filter-options", ctrls.Question.FilterOptions)
		// Optional auth so owners and moderators can see unpublished papers.
		questions.GET("/:id", authMiddleware.OptionalJWTAuth(), ctrls.Question.GetByID)
		questions.POST("/:id/views", ctrls.Question.RecordView)
	}

	v1.GET("/departments", ctrls.Department.List)
	v1.GET("/courses", ctrls.Course.List)
	v1.GET("/semesters", ctrls.Semester.List)
	v1.GET("/exam-types", ctrls.ExamType.List)
	v1.GET("/contributors/top", ctrls.User.TopContributors)
	v1.POST("/contact", ctrls.Contact.Submit)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/questions/check-duplicate", ctrls.Question.CheckDuplicate)
		authenticated.POST("/questions", ctrls.Question.Submit)
		authenticated.PUT("/questions/:id", ctrls.Question.Update)
		authenticated.DELETE("/questions/:id", ctrls.Question.Delete)
		authenticated.GET("/questions/mine", ctrls.Question.MyUploads)

		users := authenticated.Group("/users/me")
		{
			users.GET("", ctrls.User.GetProfile)
			users.PUT("", ctrls.User.UpdateProfile)
			users.PUT("/password", ctrls.User.ChangePassword)
			users.GET("/stats", ctrls.User.GetContributorStats)
		}
	}

	// --- Moderator routes ---
	moderation := v1.Group("/moderation")
	moderation.Use(authMiddleware.JWTAuth(), authMiddleware.ModeratorRequired())
	{
		moderation.GET("/questions", ctrls.Question.PendingQueue)
		moderation.POST("/questions/:id/approve", ctrls.Question.Approve)
		moderation.POST("/questions/:id/reject", ctrls.Question.Reject)
	}

	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.ModeratorRequired())
	{
		departments := admin.Group("/departments")
		{
			departments.GET("", ctrls.Department.ListWithCounts)
			departments.POST("", ctrls.Department.Create)
			departments.PUT("/:id", ctrls.Department.Update)
			departments.DELETE("/:id", ctrls.Department.Delete)
			departments.POST("/:id/merge", ctrls.Department.Merge)
		}

		courses := admin.Group("/courses")
		{
			courses.GET("", ctrls.Course.ListWithDetails)
			courses.POST("", ctrls.Course.Create)
			courses.PUT("/:id", ctrls.Course.Update)
			courses.DELETE("/:id", ctrls.Course.Delete)
			courses.POST("/:id/merge", ctrls.Course.Merge)
		}

		semesters := admin.Group("/semesters")
		{
			semesters.GET("", ctrls.Semester.ListWithCounts)
			semesters.POST("", ctrls.Semester.Create)
			semesters.PUT("/:id", ctrls.Semester.Update)
			semesters.DELETE("/:id", ctrls.Semester.Delete)
			semesters.POST("/:id/merge", ctrls.Semester.Merge)
		}

		examTypes := admin.Group("/exam-types")
		{
			examTypes.GET("", ctrls.ExamType.ListWithCounts)
			examTypes.POST("", ctrls.ExamType.Create)
			examTypes.PUT("/:id", ctrls.ExamType.Update)
			examTypes.DELETE("/:id", ctrls.ExamType.Delete)
			examTypes.POST("/:id/merge", ctrls.ExamType.Merge)
		}

		contact := admin.Group("/contact")
		{
			contact.GET("", ctrls.Contact.List)
			contact.PUT("/:id", ctrls.Contact.Update)
			contact.DELETE("/:id", ctrls.Contact.Delete)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})

	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
}
