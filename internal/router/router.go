package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"medibill/internal/domain"
	"medibill/internal/handler"
	"medibill/internal/middleware"
	"medibill/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	proposalH *handler.ProposalHandler,
	reportH *handler.DailyReportHandler,
	measurementH *handler.MeasurementHandler,
	groupH *handler.GroupHandler,
	billingH *handler.BillingHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Proposal routes
	proposals := protected.Group("/proposals")
	proposals.POST("", proposalH.Create)
	proposals.GET("", proposalH.List)
	proposals.GET("/next-number", proposalH.NextNumber)
	proposals.GET("/:id", proposalH.GetByID)
	proposals.PUT("/:id", proposalH.Update)

	// Daily report routes
	reports := protected.Group("/daily-reports")
	reports.POST("", reportH.Create)
	reports.GET("", reportH.List)

	// Measurement routes
	measurements := protected.Group("/measurements")
	measurements.POST("/process", measurementH.Process)
	measurements.POST("", measurementH.Create)
	measurements.GET("", measurementH.List)
	measurements.GET("/:id", measurementH.GetByID)
	measurements.PUT("/:id", measurementH.Update)
	measurements.POST("/:id/reapply-guarantee", measurementH.ReapplyGuarantee)
	measurements.POST("/:id/approve", measurementH.Approve)

	// Group routes
	groups := protected.Group("/groups")
	groups.POST("", groupH.Create)
	groups.GET("", groupH.List)
	groups.GET("/:id", groupH.GetByID)
	groups.POST("/:id/approve", groupH.Approve)

	// Billing ledger routes
	billing := protected.Group("/billing")
	billing.GET("", billingH.Ledger)
	billing.GET("/export", billingH.Export)
	billing.PUT("/rows", billingH.UpsertRow)
	billing.POST("/import", billingH.Import)
	billing.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), billingH.SoftDelete)
	billing.POST("/:id/attachments", billingH.AddAttachment)
	billing.GET("/:id/attachments/url", billingH.AttachmentURL)

	return r
}
