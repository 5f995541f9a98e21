package router

import (
	"log/slog"
	"net/http"

	"utsav/api"
	"utsav/checklist"
	"utsav/config"
	_ "utsav/docs"
	"utsav/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter builds the HTTP surface
func SetupRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Handler())
	r.Use(CORSMiddleware())

	r.GET("/", func(c *gin.Context) {
		api.Success(c, gin.H{
			"name":    "Utsav Planner API",
			"docs":    "/swagger/index.html",
			"sign_in": "/api/v1/auth/sign-in",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", authHandler.SignUp)
			auth.POST("/sign-in", middleware.SignInRateLimit(cfg.RateLimit.SignInAttempts, cfg.RateLimit.Window()), authHandler.SignIn)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.POST("/auth/sign-out", authHandler.SignOut)
			authorized.GET("/auth/me", authHandler.Me)

			profileHandler := api.NewProfileHandler()
			authorized.GET("/profile", profileHandler.Get)
			authorized.PUT("/profile", profileHandler.Update)

			eventHandler := api.NewEventHandler()
			authorized.GET("/dashboard", eventHandler.Dashboard)
			authorized.GET("/event-types", eventHandler.EventTypes)
			authorized.POST("/events", eventHandler.Create)

			calendarHandler := api.NewCalendarHandler(cfg.Server.BaseURL)
			authorized.GET("/calendar.ics", calendarHandler.Feed)

			event := authorized.Group("/events/:eventId")
			event.Use(middleware.EventAccess())
			{
				event.GET("", eventHandler.Get)
				event.PUT("", eventHandler.Update)
				event.DELETE("", eventHandler.Delete)
				event.GET("/overview", eventHandler.Overview)
				event.GET("/gift-suggestions", eventHandler.GiftSuggestions)

				budgetHandler := api.NewBudgetHandler()
				event.GET("/budget", budgetHandler.Get)
				event.POST("/expenses", budgetHandler.AddExpense)
				event.PUT("/expenses/:id", budgetHandler.UpdateExpense)
				event.DELETE("/expenses/:id", budgetHandler.DeleteExpense)

				seeder := checklist.NewSeeder(checklist.NewGormStore(), cfg.Checklist.ReseedWhenEmpty)
				checklistHandler := api.NewChecklistHandler(seeder)
				event.GET("/checklist", checklistHandler.List)
				event.POST("/checklist", checklistHandler.Add)
				event.PATCH("/checklist/:id/toggle", checklistHandler.Toggle)
				event.DELETE("/checklist/:id", checklistHandler.Delete)

				giftHandler := api.NewGiftHandler()
				event.GET("/gifts-to-give", giftHandler.ListToGive)
				event.POST("/gifts-to-give", giftHandler.AddToGive)
				event.PATCH("/gifts-to-give/:id/toggle", giftHandler.ToggleToGive)
				event.DELETE("/gifts-to-give/:id", giftHandler.DeleteToGive)
				event.GET("/gifts-received", giftHandler.ListReceived)
				event.POST("/gifts-received", giftHandler.AddReceived)
				event.PATCH("/gifts-received/:id/toggle", giftHandler.ToggleReceived)
				event.DELETE("/gifts-received/:id", giftHandler.DeleteReceived)

				exportHandler := api.NewExportHandler()
				event.GET("/export/csv", exportHandler.ExportCSV)
				event.GET("/export/json", exportHandler.ExportJSON)
				event.GET("/export/excel", exportHandler.ExportExcel)
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		api.NotFound(c, "page not found")
	})

	return r
}

// CORSMiddleware allows browser clients from any origin
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
