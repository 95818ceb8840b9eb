package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events-backend/cmd/campus-events/apis"
	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/lifecycle"
	"campus-events-backend/cmd/campus-events/model"
	"campus-events-backend/cmd/campus-events/repository"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stores struct {
	events        lifecycle.IEventRepo
	registrations lifecycle.IRegistrationRepo
	health        apis.Pinger
}

func serveCommand(args []string) error {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addr := flags.String("addr", "", "listen address (overrides CAMPUS_EVENTS_HTTP_ADDR)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	st, err := openStores(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, st, log)
}

func openStores(cfg EnvCfg) (stores, error) {
	if cfg.Store == "memory" {
		mem := repository.NewMemoryStore()
		return stores{events: mem, registrations: mem, health: mem}, nil
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.Debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(
		postgres.Open(formatConnectionString(cfg)),
		&gorm.Config{
			Logger:         gormLogger,
			TranslateError: true,
		},
	)
	if err != nil {
		return stores{}, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&model.EventRequest{}, &model.Registration{}); err != nil {
		return stores{}, fmt.Errorf("migrate: %w", err)
	}

	eventRepo := repository.NewEventRepo(db)
	return stores{
		events:        eventRepo,
		registrations: repository.NewRegistrationRepo(db),
		health:        eventRepo,
	}, nil
}

func newServer(cfg EnvCfg, st stores, log *slog.Logger) *echo.Echo {
	engine := lifecycle.NewEngine(st.events, st.registrations, lifecycle.WithLogger(log))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	rootg := e.Group("")
	v1g := rootg.Group("/api/v1", identity.Middleware(identity.NewVerifier(cfg.JWTSecret)))

	apis.
		NewHealthCheckAPI(st.health).
		Setup(rootg)

	apis.
		NewRequestAPI(engine, cfg.Debug).
		Setup(v1g)

	apis.
		NewEventAPI(engine).
		Setup(v1g)

	return e
}

func serve(ctx context.Context, cfg EnvCfg, st stores, log *slog.Logger) error {
	e := newServer(cfg, st, log)

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "store", cfg.Store)
		errc <- e.Start(cfg.HTTPAddr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
