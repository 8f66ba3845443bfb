package main

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HaseebAmer/bytecon/internal/clients"
	"github.com/HaseebAmer/bytecon/internal/config"
	"github.com/HaseebAmer/bytecon/internal/feed"
	"github.com/HaseebAmer/bytecon/internal/handlers"
	"github.com/HaseebAmer/bytecon/internal/models"
	"github.com/HaseebAmer/bytecon/internal/session"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	// Backend service facades
	userClient := clients.NewUserClient(cfg.Services.UserURL, cfg.Services.Timeout, logger)
	eventClient := clients.NewEventClient(cfg.Services.EventURL, cfg.Services.Timeout, logger)
	calendarClient := clients.NewCalendarClient(cfg.Services.CalendarURL, cfg.Services.Timeout, logger)

	sessions := session.NewStore(cfg.Session.MaxAge, cfg.Session.Secure)

	// Per-user feed state
	feeds := feed.NewRegistry(func() *feed.Feeds {
		return &feed.Feeds{
			Main:    feed.NewController(cfg.Feed.PageSize, eventClient.GetEvents, logger),
			Mine:    feed.NewController(cfg.Feed.PageSize, myEventsPage(eventClient), logger),
			Builder: feed.NewBuilder(nil),
		}
	})

	// Set Gin mode
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger(logger))

	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "./web/static")

	authHandler := handlers.NewAuthHandler(userClient, sessions, feeds, logger)
	eventHandler := handlers.NewEventHandler(eventClient, calendarClient, userClient, sessions, feeds, logger)
	profileHandler := handlers.NewProfileHandler(userClient, sessions, feeds, logger)
	calendarHandler := handlers.NewCalendarHandler(calendarClient, sessions, logger)

	// Public views
	r.GET("/", authHandler.HomePage)
	r.GET("/home", authHandler.HomePage)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/signup", authHandler.SignupPage)
	r.POST("/signup", authHandler.Signup)
	r.GET("/forgot-password-enter-email", authHandler.ForgotPasswordPage)
	r.POST("/forgot-password-enter-email", authHandler.ForgotPassword)
	r.GET("/new-password", authHandler.NewPasswordPage)
	r.GET("/reset_password", authHandler.ResetPasswordPage)
	r.POST("/reset_password", authHandler.ResetPassword)
	r.POST("/logout", authHandler.Logout)

	// Protected views
	protected := r.Group("/", handlers.RequireAuth(sessions))
	{
		protected.GET("/main", eventHandler.MainPage)
		protected.POST("/main/more", eventHandler.LoadMore)
		protected.POST("/main/search", eventHandler.Search)
		protected.POST("/main/mode", eventHandler.SetFilterMode)
		protected.POST("/main/dates", eventHandler.SetDates)
		protected.POST("/main/tags", eventHandler.SetTags)

		protected.GET("/my-events", eventHandler.MyEventsPage)
		protected.POST("/my-events/more", eventHandler.MyEventsLoadMore)

		protected.GET("/new-event", eventHandler.CreateEventPage)
		protected.POST("/new-event", eventHandler.CreateEvent)

		protected.GET("/event/:name", eventHandler.DetailPage)
		protected.POST("/event/:name/calendar", eventHandler.AddToCalendar)
		protected.POST("/event/:name/calendar/remove", eventHandler.RemoveFromCalendar)
		protected.POST("/event/:name/delete", eventHandler.DeleteEvent)

		protected.GET("/edit-event/:name", eventHandler.EditEventPage)
		protected.POST("/edit-event/:name", eventHandler.EditEvent)

		protected.GET("/profile", profileHandler.ProfilePage)
		protected.POST("/profile", profileHandler.Save)
		protected.POST("/profile/delete", profileHandler.DeleteAccount)

		protected.GET("/calendar", calendarHandler.CalendarPage)
	}

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting Bytecon web client", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// myEventsPage adapts the my-events query, which takes no filter, to the
// feed controller's page shape.
func myEventsPage(events *clients.EventClient) feed.PageFunc {
	return func(ctx context.Context, first int, after string, _ *models.FilterInput) (*models.EventConnection, error) {
		return events.MyEvents(ctx, first, after)
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(n int, s string) string {
			if len(s) <= n {
				return s
			}
			return s[:n]
		},
		"hasTag": func(tags []models.Tag, tag models.Tag) bool {
			for _, t := range tags {
				if t == tag {
					return true
				}
			}
			return false
		},
	}
}

func initLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "info":
		logLevel = zap.InfoLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return logger
}
