package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	videoHandler        *VideoHandler
	materialHandler     *MaterialHandler
	taskHandler         *TaskHandler
	submissionHandler   *SubmissionHandler
	messageHandler      *MessageHandler
	notificationHandler *NotificationHandler
	dashboardHandler    *DashboardHandler
	authMiddleware      *SessionAuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *cache.SessionStore,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		videoHandler:        NewVideoHandler(serviceManager.Video(), logger),
		materialHandler:     NewMaterialHandler(serviceManager.Material(), logger),
		taskHandler:         NewTaskHandler(serviceManager.Task(), logger),
		submissionHandler:   NewSubmissionHandler(serviceManager.Submission(), serviceManager.Export(), logger),
		messageHandler:      NewMessageHandler(serviceManager.Message(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:      NewSessionAuthMiddleware(serviceManager.Auth(), sessions),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")

	// Login is the only unauthenticated endpoint.
	v1.POST("/auth/login", hm.authHandler.Login)

	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		authed.POST("/auth/logout", hm.authHandler.Logout)
		authed.GET("/auth/me", hm.authHandler.Me)

		// Profile self-service
		authed.PUT("/profile", hm.userHandler.UpdateProfile)
		authed.PUT("/profile/password", hm.userHandler.ChangePassword)

		professorOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleProfessor)

		// Student administration - professor only
		students := authed.Group("/students", professorOnly)
		{
			students.POST("", hm.userHandler.CreateStudent)
			students.GET("", hm.userHandler.ListStudents)
			students.GET("/:id", hm.userHandler.GetStudent)
			students.PUT("/:id", hm.userHandler.UpdateStudent)
			students.DELETE("/:id", hm.userHandler.DeleteStudent)
		}

		// Video lessons
		videos := authed.Group("/videos")
		{
			videos.POST("", professorOnly, hm.videoHandler.Create)
			videos.PUT("/:id", professorOnly, hm.videoHandler.Update)
			videos.DELETE("/:id", professorOnly, hm.videoHandler.Delete)

			videos.GET("", hm.videoHandler.List)
			videos.GET("/categories", hm.videoHandler.Categories)
			videos.GET("/:id", hm.videoHandler.Get)

			videos.POST("/:id/comments", hm.videoHandler.AddComment)
			videos.DELETE("/:id/comments/:commentId", hm.videoHandler.DeleteComment)
		}

		// Study materials
		materials := authed.Group("/materials")
		{
			materials.POST("", professorOnly, hm.materialHandler.Create)
			materials.PUT("/:id", professorOnly, hm.materialHandler.Update)
			materials.DELETE("/:id", professorOnly, hm.materialHandler.Delete)

			materials.GET("", hm.materialHandler.List)
			materials.GET("/categories", hm.materialHandler.Categories)
			materials.GET("/:id", hm.materialHandler.Get)
			materials.GET("/:id/download", hm.materialHandler.Download)
		}

		// Graded tasks and submissions
		tasks := authed.Group("/tasks")
		{
			tasks.POST("", professorOnly, hm.taskHandler.Create)
			tasks.GET("", professorOnly, hm.taskHandler.List)
			tasks.PUT("/:id", professorOnly, hm.taskHandler.Update)
			tasks.DELETE("/:id", professorOnly, hm.taskHandler.Delete)
			tasks.GET("/:id/submissions", professorOnly, hm.submissionHandler.ListForTask)

			tasks.GET("/mine", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.taskHandler.ListForStudent)
			tasks.POST("/:id/submit", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.submissionHandler.Submit)
			tasks.GET("/:id", hm.taskHandler.Get)
			tasks.GET("/:id/attachment", hm.taskHandler.Attachment)
		}

		submissions := authed.Group("/submissions")
		{
			submissions.GET("/mine", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.submissionHandler.ListMine)
			submissions.GET("/export", professorOnly, hm.submissionHandler.ExportGrades)
			submissions.PUT("/:id/grade", professorOnly, hm.submissionHandler.Grade)
			submissions.GET("/:id", hm.submissionHandler.Get)
			submissions.GET("/:id/download", hm.submissionHandler.Download)
		}

		// Direct messages
		messages := authed.Group("/messages")
		{
			messages.POST("", hm.messageHandler.Send)
			messages.GET("/conversations", hm.messageHandler.Conversations)
			messages.GET("/conversations/:userId", hm.messageHandler.Conversation)
			messages.GET("/unread-count", hm.messageHandler.UnreadCount)
		}

		// Notifications
		notifications := authed.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.List)
			notifications.PUT("/:id/read", hm.notificationHandler.MarkRead)
			notifications.PUT("/read-all", hm.notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", hm.notificationHandler.Delete)
			notifications.POST("/broadcast", professorOnly, hm.notificationHandler.Broadcast)
		}

		// Dashboards
		dashboard := authed.Group("/dashboard")
		{
			dashboard.GET("/professor", professorOnly, hm.dashboardHandler.Professor)
			dashboard.GET("/student", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.dashboardHandler.Student)
		}
	}
}

// HealthCheck reports service and dependency health.
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
