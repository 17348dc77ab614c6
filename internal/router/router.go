package router

import (
	"log/slog"
	"net/http"

	"cash-flow/internal/budget"
	"cash-flow/internal/config"
	"cash-flow/internal/finance"
	"cash-flow/internal/handler"
	"cash-flow/internal/middleware"
	"cash-flow/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps is everything the routes need.
type Deps struct {
	Config  *config.Config
	Store   *store.Store
	Checker *budget.Checker
	Clock   finance.Clock
	Log     *slog.Logger
}

// SetupRouter configures the Gin engine with the relay and the JSON API.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Log),
		middleware.CORSMiddleware(cfg.Server.CORSOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ====== Relay（移动端直接调用，保持原有的 {message} 返回格式）======
	relayHandler := handler.NewRelayHandler(d.Store, d.Log)
	relay := r.Group("")
	relay.Use(relayHandler.Recovery())
	relay.POST("/login", relayHandler.Login)
	relay.POST("/cashflow", relayHandler.CashFlow)
	relay.POST("/target", relayHandler.Target)

	// ====== API ======
	api := r.Group("/api")

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(d.Store, cfg, d.Log)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	toolsHandler := handler.NewToolsHandler()
	api.POST("/tools/loan", toolsHandler.Loan)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, d.Store),
		middleware.AuditMiddleware(d.Store, cfg.Security.EncryptionKey, d.Log),
	)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)

	profileHandler := handler.NewProfileHandler(d.Store, cfg.Security.BcryptCost)
	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile", profileHandler.UpdateProfile)
	protected.PUT("/profile/language", profileHandler.SetLanguage)

	cashFlowHandler := handler.NewCashFlowHandler(d.Store, d.Clock, d.Log)
	protected.POST("/cashflows", cashFlowHandler.Create)
	protected.GET("/cashflows", cashFlowHandler.List)
	protected.DELETE("/cashflows/:id", cashFlowHandler.Delete)

	summaryHandler := handler.NewSummaryHandler(d.Store, d.Clock, cfg.App.LookbackDays, d.Log)
	protected.GET("/summary", summaryHandler.Summary)
	protected.GET("/summary/today", summaryHandler.Today)
	protected.GET("/buckets", summaryHandler.Buckets)
	protected.GET("/calendar", summaryHandler.Calendar)
	protected.GET("/breakdown", summaryHandler.Breakdown)

	planHandler := handler.NewPlanHandler(d.Store, d.Clock)
	protected.GET("/plan", planHandler.GetPlan)
	protected.PUT("/plan/limit", planHandler.SetLimit)
	protected.PUT("/plan/target", planHandler.SetTarget)
	protected.GET("/plan/progress", planHandler.Progress)

	limitHandler := handler.NewLimitHandler(d.Store, d.Checker)
	protected.GET("/limit", limitHandler.GetLimit)
	protected.PUT("/limit", limitHandler.SetLimit)
	protected.POST("/limit/check", limitHandler.Check)

	exportHandler := handler.NewExportHandler(d.Store, d.Clock)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(d.Store, cfg.Security.EncryptionKey)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
