package api

import (
	"net/http"

	"alcyxob/reptrack/internal/domain"
	"alcyxob/reptrack/internal/metrics"
	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Services groups everything the HTTP layer calls into. Media may be nil when
// no object storage is configured; its routes are then not registered.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Social   service.SocialService
	Feed     service.FeedService
	Programs service.ProgramService
	Plans    service.WorkoutPlanService
	Progress service.ProgressService
	Media    service.MediaService
}

// SetupRoutes registers every route on router. A nil gatherer disables /metrics.
func SetupRoutes(router *gin.Engine, svc Services, log logrus.FieldLogger, m *metrics.Metrics, gatherer prometheus.Gatherer) {
	router.Use(gin.Recovery(), RequestLogger(log, m))

	authHandler := NewAuthHandler(svc.Auth, log)
	userHandler := NewUserHandler(svc.Users, svc.Social, log)
	postHandler := NewPostHandler(svc.Social, svc.Feed, log)
	notificationHandler := NewNotificationHandler(svc.Social, log)
	programHandler := NewProgramHandler(svc.Programs, log)
	planHandler := NewWorkoutPlanHandler(svc.Plans, log)
	progressHandler := NewProgressHandler(svc.Progress, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth, log))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/me", userHandler.Me)
		protected.PUT("/me", userHandler.UpdateProfile)

		userGroup := protected.Group("/users")
		{
			userGroup.GET("", userHandler.SearchUsers)
			userGroup.GET("/:id", userHandler.GetProfile)
			userGroup.GET("/:id/posts", userHandler.ListPosts)
			userGroup.GET("/:id/followers", userHandler.Followers)
			userGroup.GET("/:id/following", userHandler.Following)
			userGroup.POST("/:id/follow", userHandler.Follow)
			userGroup.DELETE("/:id/follow", userHandler.Unfollow)
		}

		protected.GET("/feed", postHandler.Feed)
		protected.GET("/feed/following", postHandler.FollowingFeed)

		postGroup := protected.Group("/posts")
		{
			postGroup.POST("", postHandler.CreatePost)
			postGroup.GET("/:id", postHandler.GetPost)
			postGroup.PUT("/:id", postHandler.UpdatePost)
			postGroup.DELETE("/:id", postHandler.DeletePost)

			postGroup.GET("/:id/like", postHandler.LikeStatus)
			postGroup.POST("/:id/like", postHandler.Like)
			postGroup.DELETE("/:id/like", postHandler.Unlike)
			postGroup.POST("/:id/like/toggle", postHandler.ToggleLike)

			postGroup.GET("/:id/comments", postHandler.ListComments)
			postGroup.POST("/:id/comments", postHandler.AddComment)
		}
		protected.DELETE("/comments/:commentId", postHandler.DeleteComment)

		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.List)
			notificationGroup.GET("/unread-count", notificationHandler.UnreadCount)
			notificationGroup.POST("/read-all", notificationHandler.MarkAllRead)
			notificationGroup.POST("/:id/read", notificationHandler.MarkRead)
			notificationGroup.DELETE("/:id", notificationHandler.Delete)
		}

		programGroup := protected.Group("/programs")
		{
			programGroup.GET("", programHandler.ListPrograms)
			// Ownership is checked by the service; the role gate only rejects trainees early.
			programGroup.POST("", RoleMiddleware(domain.RoleTrainer), programHandler.CreateProgram)
			programGroup.GET("/:id", programHandler.GetProgram)
			programGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer), programHandler.UpdateProgram)
			programGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainer), programHandler.DeleteProgram)
			programGroup.GET("/:id/exercises", programHandler.ListExercises)
			programGroup.POST("/:id/exercises", RoleMiddleware(domain.RoleTrainer), programHandler.AddExercise)
			programGroup.POST("/:id/join", programHandler.JoinProgram)
		}
		protected.DELETE("/exercises/:id", RoleMiddleware(domain.RoleTrainer), programHandler.DeleteExercise)

		planGroup := protected.Group("/plans")
		{
			planGroup.GET("", planHandler.ListPlans)
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("/:id", planHandler.GetPlan)
			planGroup.DELETE("/:id", planHandler.DeletePlan)
			planGroup.POST("/:id/join", planHandler.JoinPlan)
			planGroup.DELETE("/:id/join", planHandler.LeavePlan)
		}

		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("", progressHandler.History)
			progressGroup.POST("", progressHandler.LogProgress)
			progressGroup.GET("/exercises/:exerciseId", progressHandler.ExerciseHistory)
		}

		if svc.Media != nil {
			mediaHandler := NewMediaHandler(svc.Media, log)
			mediaGroup := protected.Group("/media")
			{
				mediaGroup.POST("/upload-url", mediaHandler.RequestUploadURL)
				mediaGroup.GET("/download-url", mediaHandler.DownloadURL)
				mediaGroup.DELETE("", mediaHandler.Delete)
			}
		}
	}
}
