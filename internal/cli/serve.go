package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/seabattle-go/internal/api"
	"github.com/mcoot/seabattle-go/internal/config"
	"github.com/mcoot/seabattle-go/internal/factory"
	"github.com/mcoot/seabattle-go/internal/services/game"
	"github.com/mcoot/seabattle-go/internal/services/registry"
	pgstorage "github.com/mcoot/seabattle-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/seabattle-go/internal/storage/redis"
	"github.com/mcoot/seabattle-go/internal/transport/ws"
)

type serveFlags struct {
	host      string
	port      int
	storage   string
	staticDir string
	logLevel  string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Long: `Run the sea battle server: the websocket game protocol on /ws and the
read API under /api/v1.

Settings come from defaults, then --config, then --env-file, then SEABATTLE_*
environment variables, then the flags below.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(cfg.ConfigPath, cfg.EnvFile)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, flags, &conf)
			if err := conf.Validate(); err != nil {
				return err
			}

			logger := conf.Log.NewLogger(os.Stdout)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, conf, logger)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "Listen host")
	cmd.Flags().IntVar(&flags.port, "port", 0, "Listen port")
	cmd.Flags().StringVar(&flags.storage, "storage", "", "Storage backend: memory, redis, postgres")
	cmd.Flags().StringVar(&flags.staticDir, "static-dir", "", "Directory served at /")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

func applyServeFlags(cmd *cobra.Command, flags serveFlags, conf *config.Config) {
	if cmd.Flags().Changed("host") {
		conf.Server.Host = flags.host
	}
	if cmd.Flags().Changed("port") {
		conf.Server.Port = flags.port
	}
	if cmd.Flags().Changed("storage") {
		conf.Storage.Type = flags.storage
	}
	if cmd.Flags().Changed("static-dir") {
		conf.Server.StaticDir = flags.staticDir
	}
	if cmd.Flags().Changed("log-level") {
		conf.Log.Level = flags.logLevel
	}
}

// serve runs the server until ctx is cancelled
func serve(ctx context.Context, conf config.Config, logger *slog.Logger) error {
	app, err := factory.New(ctx, factoryConfig(conf, logger))
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	server := api.NewServer(app.Handler(conf.Server.StaticDir), api.ServerConfig{
		Host:            conf.Server.Host,
		Port:            conf.Server.Port,
		ReadTimeout:     conf.Server.ReadTimeout,
		WriteTimeout:    conf.Server.WriteTimeout,
		ShutdownTimeout: conf.Server.ShutdownTimeout,
	}, logger)
	// Hijacked websocket connections are not tracked by http.Server
	server.OnShutdown(app.Hub.Close)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", conf.Storage.Type))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// ctx is already cancelled; the server gets its own shutdown budget
	if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func factoryConfig(conf config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: conf.Storage.Type,
		Registry:    registry.Config{BcryptCost: conf.Game.BcryptCost},
		Game: game.Config{
			BotMoveDelay:      conf.Game.BotDelay,
			FinishedRetention: conf.Game.FinishedRetention,
		},
		WS: ws.Config{
			ReadLimit:      conf.WS.ReadLimit,
			PongWait:       conf.WS.PongWait,
			WriteWait:      conf.WS.WriteWait,
			SendBufferSize: conf.WS.SendBuffer,
			AllowedOrigins: conf.WS.AllowedOrigins,
		},
	}

	switch conf.Storage.Type {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = conf.Storage.Redis.URL
		if conf.Storage.Redis.PoolSize > 0 {
			redisCfg.PoolSize = conf.Storage.Redis.PoolSize
		}
		if conf.Storage.Redis.KeyPrefix != "" {
			redisCfg.KeyPrefix = conf.Storage.Redis.KeyPrefix
		}
		fc.RedisConfig = &redisCfg
	case config.StoragePostgres:
		pgCfg := pgstorage.DefaultConfig()
		pgCfg.URL = conf.Storage.Postgres.URL
		if conf.Storage.Postgres.MaxConns > 0 {
			pgCfg.MaxConns = conf.Storage.Postgres.MaxConns
		}
		pgCfg.AutoMigrate = conf.Storage.Postgres.AutoMigrate
		fc.PostgresConfig = &pgCfg
	}

	return fc
}
