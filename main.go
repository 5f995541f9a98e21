package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"utsav/config"
	"utsav/database"
	"utsav/logging"
	"utsav/middleware"
	"utsav/router"
	"utsav/service"

	"github.com/joho/godotenv"
)

// @title Utsav Planner API
// @version 1.0
// @description Plan Indian celebrations: events, budgets, checklists and gifts.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	testEmail   string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file (optional)")
	flag.StringVar(&configFile, "c", "", "external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.StringVar(&testEmail, "test-email", "", "send a test e-mail to this address and exit")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("utsav", version)
		return
	}

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	logger := logging.Setup("")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if os.Getenv("LOG_LEVEL") == "" && cfg.Log.Level != "" {
		logger = logging.Setup(cfg.Log.Level)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		slog.Info("port set from command line", "port", port)
	}

	config.PrintConfig()

	if testEmail != "" {
		if err := service.NewEmailService(&cfg.Email).SendTestEmail(testEmail); err != nil {
			slog.Error("send test email", "to", testEmail, "error", err)
			os.Exit(1)
		}
		slog.Info("test email sent", "to", testEmail)
		return
	}

	if err := database.Init(cfg); err != nil {
		slog.Error("init database", "error", err)
		os.Exit(1)
	}

	middleware.InitJWT(cfg)

	var reminders *service.ReminderService
	if cfg.Reminder.Enabled {
		reminders = service.NewReminderService(service.NewEmailService(&cfg.Email), cfg.Reminder.Schedule)
		if err := reminders.Start(); err != nil {
			slog.Error("start reminders", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("utsav started",
			"api", "http://localhost"+cfg.Server.Port+"/api/v1/",
			"swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	if reminders != nil {
		reminders.Stop()
	}
}
