package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	analyticsapp "github.com/wyfcoding/merchantrisk/internal/analytics/application"
	analyticsmysql "github.com/wyfcoding/merchantrisk/internal/analytics/infrastructure/persistence/mysql"
	analyticshttp "github.com/wyfcoding/merchantrisk/internal/analytics/interfaces/http"
	reviewapp "github.com/wyfcoding/merchantrisk/internal/review/application"
	reviewdomain "github.com/wyfcoding/merchantrisk/internal/review/domain"
	"github.com/wyfcoding/merchantrisk/internal/review/infrastructure/messaging"
	reviewmysql "github.com/wyfcoding/merchantrisk/internal/review/infrastructure/persistence/mysql"
	reviewhttp "github.com/wyfcoding/merchantrisk/internal/review/interfaces/http"
	"github.com/wyfcoding/merchantrisk/pkg/cache"
	"github.com/wyfcoding/merchantrisk/pkg/config"
	"github.com/wyfcoding/merchantrisk/pkg/db"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
	"github.com/wyfcoding/merchantrisk/pkg/metrics"
	"github.com/wyfcoding/merchantrisk/pkg/middleware"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/workbench/config.toml", "path to config file")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	// 3. 初始化指标
	m := metrics.New(cfg.ServiceName)

	// 4. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer database.Close()

	// 5. 自动迁移
	if err := database.AutoMigrate(&reviewdomain.MerchantRiskScore{}, &reviewdomain.MerchantReviewStatus{}); err != nil {
		logger.Fatal(ctx, "failed to migrate database", "error", err)
	}

	// 6. 缓存：Redis 未启用时使用进程内缓存
	var store cache.Store
	if cfg.Redis.Enabled {
		store, err = cache.NewRedis(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ConnTimeout:  cfg.Redis.ConnTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to connect to redis", "error", err)
		}
	} else {
		store = cache.NewMemory()
	}
	defer store.Close()

	// 7. 事件发布：未启用 Kafka 时审核事件不对外发布
	var publisher reviewdomain.EventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := messaging.NewKafkaEventPublisher(messaging.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.ReviewTopic,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// 8. 依赖注入
	reviewRepo := reviewmysql.NewReviewRepository(database.DB)
	analyticsRepo := analyticsmysql.NewAnalyticsRepository(database.DB)

	analyticsSvc := analyticsapp.NewAnalyticsService(
		analyticsRepo, store, m, time.Duration(cfg.Cache.AnalyticsTTL)*time.Second)
	reviewSvc := reviewapp.NewReviewService(
		reviewRepo, store, publisher, m, time.Now, analyticsSvc)

	// 9. HTTP 服务
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.GinLogging(),
		middleware.GinRecovery(),
		middleware.GinCORS(),
		middleware.GinMetrics(m),
		middleware.Identity(cfg.Auth.JWTSecret),
	)

	reviewhttp.NewReviewHandler(reviewSvc).RegisterRoutes(&router.RouterGroup)
	analyticshttp.NewAnalyticsHandler(analyticsSvc).RegisterRoutes(&router.RouterGroup)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})
	router.StaticFile("/", cfg.HTTP.StaticDir+"/index.html")

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "Starting HTTP server", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server failed", "error", err)
		}
	}()

	// 10. 指标服务
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			logger.Info(ctx, "Starting metrics server", "addr", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error(ctx, "Metrics server failed", "error", err)
			}
		}()
	}

	// 11. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown failed", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Metrics server shutdown failed", "error", err)
		}
	}
	logger.Info(ctx, "Server exiting")
}
