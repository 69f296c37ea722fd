// Command portald serves the SENSES admin portal gateway.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sensesdx/portalkit"
	fiberadapter "github.com/sensesdx/portalkit/adapters/fiber"
	"github.com/sensesdx/portalkit/cache"
	"github.com/sensesdx/portalkit/config"
	"github.com/sensesdx/portalkit/notify"
)

func main() {
	root := &cobra.Command{
		Use:   "portald",
		Short: "Admin portal gateway for the SENSES blood-sample logistics API",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			log, err := buildLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			var cacheAdapter portalkit.Cache
			if cfg.RedisAddr != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				cacheAdapter = cache.NewRedis(client, cfg.CacheTTL)
				log.Info("using redis query cache", zap.String("addr", cfg.RedisAddr))
			}

			portal, err := portalkit.New(portalkit.Config{
				BaseURL:         cfg.APIBaseURL,
				Cache:           cacheAdapter,
				Notifier:        notify.NewLogger(log),
				Logger:          log,
				Timeout:         cfg.RequestTimeout,
				QueryRetries:    cfg.QueryRetries,
				QueryRetryDelay: cfg.QueryRetryDelay,
			})
			if err != nil {
				return err
			}

			app := fiber.New()
			adapter := fiberadapter.New(fiberadapter.Config{
				App:             app,
				Portal:          portal,
				Logger:          log,
				LoginRatePerMin: cfg.LoginRatePerMin,
			})
			adapter.RegisterRoutes()

			go func() {
				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
				<-quit
				log.Info("shutting down")
				_ = app.Shutdown()
			}()

			log.Info("listening",
				zap.String("addr", cfg.ListenAddr),
				zap.String("api", cfg.APIBaseURL))
			return app.Listen(cfg.ListenAddr)
		},
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
