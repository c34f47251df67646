package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	punchoutapp "github.com/crowdfox/oci-srm-server-mock/internal/application/punchout"
	"github.com/crowdfox/oci-srm-server-mock/internal/infrastructure/config"
	"github.com/crowdfox/oci-srm-server-mock/internal/infrastructure/logger"
	"github.com/crowdfox/oci-srm-server-mock/internal/infrastructure/persistence"
	"github.com/crowdfox/oci-srm-server-mock/internal/infrastructure/srm"
	"github.com/crowdfox/oci-srm-server-mock/internal/interfaces/http/handler"
	"github.com/crowdfox/oci-srm-server-mock/internal/interfaces/http/middleware"
	"github.com/crowdfox/oci-srm-server-mock/internal/interfaces/http/router"
)

func main() {
	// Load configuration. An invalid endpoint or port is fatal before the
	// listener ever binds.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OCI SRM server mock",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Already validated by config.Load; parsing again cannot fail here,
	// but the fail-fast guard stays in place.
	loginURI, err := cfg.Punchout.ParsedLoginURI()
	if err != nil {
		log.Fatal("Invalid punch-out login URI", zap.Error(err))
	}
	confirmationURI, err := cfg.Punchout.ParsedConfirmationURI()
	if err != nil {
		log.Fatal("Invalid confirmation URI", zap.Error(err))
	}
	callbackBase, err := cfg.Punchout.ParsedCallbackBaseURL()
	if err != nil {
		log.Fatal("Invalid callback base URL", zap.Error(err))
	}

	// Wire the core
	registry := persistence.NewMemoryProcessRegistry()
	dispatcher := srm.NewConfirmationClient(confirmationURI, log.Named("srm"))
	lifecycle := punchoutapp.NewLifecycleService(punchoutapp.LifecycleServiceConfig{
		Registry:     registry,
		Dispatcher:   dispatcher,
		LoginURI:     loginURI,
		CallbackBase: callbackBase,
		Logger:       log.Named("punchout"),
	})

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	router.NewRouter(engine).
		Register(handler.NewPunchoutHandler(lifecycle)).
		Register(handler.NewSystemHandler(cfg.App.Name)).
		Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	log.Info("HTTP server listening", zap.String("addr", server.Addr))

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
