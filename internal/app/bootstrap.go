package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hirelink/internal/config"
	"hirelink/internal/database/migration"
	"hirelink/internal/database/seeder"
	"hirelink/internal/delivery/http/middleware"
	"hirelink/internal/delivery/http/routes"
	v1 "hirelink/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.Default()

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	runner := migration.Runner{Dir: cfg.Database.MigrationsDir}
	if err := runner.Run(migCtx, c.DB.SQLDB()); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	if strings.EqualFold(cfg.App.Environment, "development") {
		seedRunner := seeder.Runner{Logger: logger, Seeders: []seeder.Seeder{seeder.DemoSeeder{}}}
		if err := seedRunner.Run(migCtx, c.DB); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	go c.Hub.Run()

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, logger)

	registry := routes.NewRegistry(v1.Deps{
		Config: cfg,
		DB:     c.DB,
		Cache:  c.Cache,
		Hub:    c.Hub,
		Logger: logger,
	})
	registry.Register(f)

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware().Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
