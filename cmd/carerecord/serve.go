package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UMEZAWADAN/SD-5/common/database"
	commonlogger "github.com/UMEZAWADAN/SD-5/common/logger"
	"github.com/UMEZAWADAN/SD-5/common/mqtt"
	commonredis "github.com/UMEZAWADAN/SD-5/common/redis"
	"github.com/UMEZAWADAN/SD-5/internal/config"
	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/export"
	httpapi "github.com/UMEZAWADAN/SD-5/internal/http"
	"github.com/UMEZAWADAN/SD-5/internal/metrics"
	"github.com/UMEZAWADAN/SD-5/internal/record"
	"github.com/UMEZAWADAN/SD-5/internal/repository"
	"github.com/UMEZAWADAN/SD-5/internal/service"
	"github.com/UMEZAWADAN/SD-5/internal/store"
	"github.com/UMEZAWADAN/SD-5/internal/tabs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the record page and the save endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := os.Setenv("CONFIG_FILE", configPath); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML), overrides CONFIG_FILE")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := commonlogger.NewLogger(cfg.Log.Level, cfg.Log.Format, appName)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	visitsRepo, closeDB := openVisitsRepo(ctx, cfg, logger)
	defer closeDB()

	kv, events, closeRedis := openAssessmentStorage(ctx, cfg, logger)
	defer closeRedis()

	var publisher service.Publisher
	if cfg.MQTT.Enabled {
		if c, err := mqtt.NewClient(&cfg.MQTT); err == nil {
			publisher = c
			defer c.Disconnect()
			logger.Info("MQTT save announcements enabled", zap.String("topic", cfg.MQTT.Topic))
		} else {
			logger.Warn("MQTT enabled but connection failed, announcements disabled", zap.Error(err))
		}
	}

	tc, err := tabs.New(cfg.Tabs)
	if err != nil {
		return fmt.Errorf("invalid tab layout: %w", err)
	}

	person := domain.DemoPerson()
	if cfg.PersonID != "" {
		person.PersonID = cfg.PersonID
	}

	receiver := service.NewAssessmentReceiver(store.NewAssessmentStore(kv, ""), events, publisher, logger, m)
	visitLog := service.NewVisitLog(visitsRepo, logger, m)
	dispatcher := service.NewSaveDispatcher(cfg.Save.Endpoint, cfg.Save.Timeout, logger, m)
	ctrl := record.NewController(person, tc, visitLog, dispatcher, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterRecordRoutes(httpapi.NewRecordHandler(ctrl, export.NewRegistry(), m, logger))
	router.RegisterSaveAPIRoutes(httpapi.NewSaveAPIHandler(receiver, person.PersonID, logger))
	router.RegisterMetrics(reg)

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}

// openVisitsRepo DB 不可用时退回内存 repo（重启丢失）
func openVisitsRepo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.VisitsRepository, func()) {
	if !cfg.DBEnabled {
		return repository.NewMemoryVisitsRepo(), func() {}
	}
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		logger.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		return repository.NewMemoryVisitsRepo(), func() {}
	}
	repo := repository.NewPostgresVisitsRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Warn("Failed to ensure visits schema, falling back to memory", zap.Error(err))
		_ = db.Close()
		return repository.NewMemoryVisitsRepo(), func() {}
	}
	logger.Info("DB enabled for visit records")
	return repo, func() { _ = db.Close() }
}

// openAssessmentStorage Redis 不可用时退回内存 KV，且不写 stream
func openAssessmentStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.KV, service.EventSink, func()) {
	if cfg.RedisEnabled {
		client := commonredis.NewRedisClient(&cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := commonredis.Ping(pingCtx, client)
		cancel()
		if err == nil {
			logger.Info("Redis enabled for assessments", zap.String("addr", cfg.Redis.Addr), zap.String("stream", cfg.Stream.Name))
			return store.NewRedisKV(client), store.NewStreamSink(client, cfg.Stream.Name, cfg.Stream.MaxLen), func() { _ = client.Close() }
		}
		logger.Warn("Redis unavailable, assessments kept in memory", zap.Error(err))
		_ = client.Close()
	}
	return store.NewMemoryKV(), nil, func() {}
}
