package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jo-hoe/goresize/internal/backend"
	"github.com/jo-hoe/goresize/internal/core"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	configPath := core.ConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config from %q: %v", configPath, err)
	}

	logger, err := core.NewLogger(config.Logging)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	coreService, err := core.NewCoreService(config, logger)
	if err != nil {
		logger.Fatal("failed to create core service", zap.Error(err))
	}

	server := defineServer(logger)
	backend.NewAPIService(coreService, logger).SetRoutes(server)

	address := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		logger.Info("starting server", zap.String("address", address))
		if err := server.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

func defineServer(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Skip the probe endpoint to keep health checks out of the log
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRoutePath: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info(fmt.Sprintf("%s %s", v.Method, v.URI), fields...)
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &backend.GenericEchoValidator{}

	return e
}
