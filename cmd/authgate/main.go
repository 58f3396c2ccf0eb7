package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/licx/authgate/internal/config"
	"github.com/licx/authgate/internal/db"
	"github.com/licx/authgate/internal/handler"
	"github.com/licx/authgate/internal/kv"
	"github.com/licx/authgate/internal/middleware"
	"github.com/licx/authgate/internal/pkg/jwt"
	"github.com/licx/authgate/internal/repo"
	"github.com/licx/authgate/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "authgate",
		Short: "authgate authentication backend",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run authgate server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			store, err := kv.Open(cfg.Redis)
			if err != nil {
				return fmt.Errorf("open kv store: %w", err)
			}
			return runServer(cfg, conn, store)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB, store kv.Store) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("redis", cfg.Redis.Addr),
	)

	accountRepo := repo.NewAccountRepo(conn)

	codec := jwt.NewCodec([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	limiter := service.NewRateLimiter(store, time.Duration(cfg.VerifyLimitSecs)*time.Second)
	revocations := service.NewRevocationRegistry(store)
	mailSender := service.NewEmailSender(cfg.Mail)
	codeService := service.NewVerifyCodeService(store, limiter, mailSender)
	authService := service.NewAuthService(accountRepo, codec, revocations, codeService)

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService, codeService),
		Account:     handler.NewAccountHandler(authService),
		Codec:       codec,
		Revocations: revocations,
	}

	engine, err := webapi.NewEngine(
		"/api",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
