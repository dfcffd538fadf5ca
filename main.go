package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-api/config"
	"restaurant-api/handlers"
	"restaurant-api/logger"
	"restaurant-api/middleware"
	"restaurant-api/realtime"
	"restaurant-api/routes"
	"restaurant-api/service"
	"restaurant-api/store"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New("restaurant-api", cfg.Log.Level)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg.DB, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	log.Info("database ready", "driver", cfg.DB.Driver)

	hub := realtime.NewHub(cfg.Realtime.Buffer, log.With("component", "realtime"))
	go hub.Run(ctx)

	notifiers := realtime.Fanout{hub}
	var bridges []io.Closer
	if cfg.NATS.URL != "" {
		bridge, err := realtime.NewNATSBridge(cfg.NATS.URL, log.With("component", "nats"))
		if err != nil {
			return err
		}
		notifiers = append(notifiers, bridge)
		bridges = append(bridges, bridge)
		log.Info("forwarding events to NATS", "url", cfg.NATS.URL)
	}
	if cfg.AMQP.URL != "" {
		bridge, err := realtime.NewAMQPBridge(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.Realtime.Buffer, log.With("component", "amqp"))
		if err != nil {
			return err
		}
		notifiers = append(notifiers, bridge)
		bridges = append(bridges, bridge)
		log.Info("forwarding events to RabbitMQ", "exchange", cfg.AMQP.Exchange)
	}
	defer func() {
		for _, b := range bridges {
			if err := b.Close(); err != nil {
				log.Warn("closing event bridge", "error", err)
			}
		}
	}()

	rates, err := cfg.Billing.Rates()
	if err != nil {
		return err
	}
	selfRoles, err := cfg.Auth.SelfRegisterRoles()
	if err != nil {
		return err
	}
	repo := store.New(db)
	svc := service.New(repo, notifiers, service.Rates{Tax: rates.Tax, Service: rates.Service})
	auth := middleware.NewAuth(cfg.Auth.Secret, cfg.Auth.TTL)
	h := handlers.New(svc, repo, hub, auth, log).
		WithHealthCheck(sqlDB.PingContext).
		WithSelfRegistration(selfRoles)

	gin.SetMode(cfg.HTTP.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Restaurant Order API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"manager", "waiter", "chef", "cashier"},
		})
	})
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
