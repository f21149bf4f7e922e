package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-marketplace-backend/internal/config"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/http/handlers"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/http/middleware"
	"github.com/ignatzorin/freelance-marketplace-backend/internal/service"
)

// Handlers собирает все HTTP хэндлеры приложения.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Mission      *handlers.MissionHandler
	Proposal     *handlers.ProposalHandler
	Contract     *handlers.ContractHandler
	Milestone    *handlers.MilestoneHandler
	Dispute      *handlers.DisputeHandler
	Evidence     *handlers.EvidenceHandler
	Notification *handlers.NotificationHandler
	WS           *handlers.WSHandler
	Health       *handlers.HealthHandler
}

// SetupRouter настраивает маршруты приложения.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	api.GET("/ws", h.WS.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Миссии
		protected.POST("/missions", h.Mission.Create)
		protected.GET("/missions", h.Mission.ListPublished)
		protected.GET("/missions/my", h.Mission.ListMy)
		protected.GET("/missions/:id", middleware.UUIDValidator("id"), h.Mission.Get)
		protected.POST("/missions/:id/publish", middleware.UUIDValidator("id"), h.Mission.Publish)
		protected.POST("/missions/:id/cancel", middleware.UUIDValidator("id"), h.Mission.Cancel)
		protected.GET("/missions/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.ListByMission)
		protected.GET("/missions/:id/contract", middleware.UUIDValidator("id"), h.Contract.GetByMission)

		// Отклики
		protected.POST("/proposals", h.Proposal.Create)
		protected.GET("/proposals/my", h.Proposal.ListMy)
		protected.POST("/proposals/:id/shortlist", middleware.UUIDValidator("id"), h.Proposal.Shortlist)
		protected.POST("/proposals/:id/accept", middleware.UUIDValidator("id"), h.Proposal.Accept)

		// Контракты
		protected.GET("/contracts", h.Contract.ListMy)
		protected.GET("/contracts/:id", middleware.UUIDValidator("id"), h.Contract.Get)
		protected.POST("/contracts/:id/sign", middleware.UUIDValidator("id"), h.Contract.Sign)
		protected.POST("/contracts/:id/complete", middleware.UUIDValidator("id"), h.Contract.Complete)
		protected.GET("/contracts/:id/milestones", middleware.UUIDValidator("id"), h.Milestone.ListByContract)

		// Этапы
		protected.POST("/milestones", h.Milestone.Create)
		protected.POST("/milestones/:id/start", middleware.UUIDValidator("id"), h.Milestone.Start)
		protected.POST("/milestones/:id/submit", middleware.UUIDValidator("id"), h.Milestone.Submit)
		protected.POST("/milestones/:id/approve", middleware.UUIDValidator("id"), h.Milestone.Approve)
		protected.POST("/milestones/:id/revision", middleware.UUIDValidator("id"), h.Milestone.RequestRevision)
		protected.POST("/milestones/:id/pay", middleware.UUIDValidator("id"), h.Milestone.ReleasePayment)

		// Споры
		protected.POST("/disputes", h.Dispute.Open)
		protected.GET("/disputes", h.Dispute.ListMy)
		protected.GET("/disputes/:id", middleware.UUIDValidator("id"), h.Dispute.Get)
		protected.POST("/disputes/:id/messages", middleware.UUIDValidator("id"), h.Dispute.AddMessage)
		protected.GET("/disputes/:id/messages", middleware.UUIDValidator("id"), h.Dispute.ListMessages)
		protected.POST("/disputes/messages/:id/evidence", middleware.UUIDValidator("id"), h.Evidence.Upload)
		protected.GET("/disputes/messages/:id/evidence", middleware.UUIDValidator("id"), h.Evidence.ListByMessage)
		protected.GET("/evidence/:id", middleware.UUIDValidator("id"), h.Evidence.Download)

		// Уведомления
		protected.GET("/notifications", h.Notification.List)
		protected.GET("/notifications/unread/count", h.Notification.CountUnread)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)
		protected.POST("/notifications/read-all", h.Notification.MarkAllAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), h.Notification.Delete)
	}

	// Администрирование споров.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.GET("/disputes", h.Dispute.ListAll)
		admin.PATCH("/disputes/:id/status", middleware.UUIDValidator("id"), h.Dispute.UpdateStatus)
		admin.POST("/disputes/:id/assign", middleware.UUIDValidator("id"), h.Dispute.Assign)
		admin.PATCH("/disputes/:id/triage", middleware.UUIDValidator("id"), h.Dispute.UpdateTriage)
		admin.POST("/disputes/:id/resolve", middleware.UUIDValidator("id"), h.Dispute.Resolve)
	}

	return r
}
