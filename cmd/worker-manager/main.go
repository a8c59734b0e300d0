// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"jobvance-workers/internal/api"
	awsclients "jobvance-workers/internal/common/aws"
	"jobvance-workers/internal/common/camunda"
	"jobvance-workers/internal/common/config"
	"jobvance-workers/internal/common/database"
	"jobvance-workers/internal/common/logger"
	"jobvance-workers/internal/common/observability"

	cfa "jobvance-workers/internal/workers/entitlement/check-feature-access"
	re "jobvance-workers/internal/workers/entitlement/resolve-entitlement"
	cdq "jobvance-workers/internal/workers/jobs/check-daily-quota"
	mjr "jobvance-workers/internal/workers/jobs/mask-job-results"
	sj "jobvance-workers/internal/workers/jobs/search-jobs"
	sun "jobvance-workers/internal/workers/notification/send-upgrade-notice"
	crq "jobvance-workers/internal/workers/resume/check-resume-quota"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, zapLog)

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, zapLog)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := pg.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("postgres schema setup failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL schema ensured")
	}

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	if cfg.Database.Elasticsearch.CreateIndex {
		created, err := esClient.EnsureIndex(ctx)
		if err != nil {
			zapLog.Warn("job listings index check failed", zap.String("index", esClient.Index), zap.Error(err))
		} else if created {
			zapLog.Info("job listings index created", zap.String("index", esClient.Index))
		}
	}

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- AWS (SES + SNS) ---
	var (
		sesClient awsclients.SESService
		snsClient awsclients.SNSService
	)
	if cfg.Notifications.Email.Enabled || cfg.Notifications.AWS.SalesTopicARN != "" {
		clients, err := awsclients.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("AWS clients unavailable, upgrade notices will be disabled", zap.Error(err))
		} else {
			sesClient = clients.SES
			snsClient = clients.SNS
			zapLog.Info("AWS clients initialized", zap.String("region", cfg.Notifications.AWS.Region))
		}
	}

	// --- Workers ---
	zc := zeebe.GetClient()
	var workers []*camunda.CamundaWorker
	start := func(taskType string, handler camunda.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		workers = append(workers, startWorker(zc, cfg, taskType, handler, obs, zapLog))
	}

	{
		c := re.LoadConfig()
		wc := config.GetWorkerConfig(cfg, re.TaskType)
		c.Timeout = config.GetDuration(wc.Timeout)
		switch {
		case wc.CacheTTL > 0:
			c.CacheTTL = time.Duration(wc.CacheTTL) * time.Second
		case wc.CacheTTL < 0:
			c.CacheTTL = 0
		}
		start(re.TaskType, re.NewHandler(c, pg.DB, rdb.Client, log).Handle)
	}

	{
		c := cfa.LoadConfig()
		c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, cfa.TaskType).Timeout)
		start(cfa.TaskType, cfa.NewHandler(c, log).Handle)
	}

	{
		c := mjr.LoadConfig()
		c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, mjr.TaskType).Timeout)
		start(mjr.TaskType, mjr.NewHandler(c, log).Handle)
	}

	{
		c := sj.LoadConfig()
		c.Index = esClient.Index
		c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, sj.TaskType).Timeout)
		start(sj.TaskType, sj.NewHandler(c, esClient.Client, log).Handle)
	}

	{
		c := cdq.LoadConfig()
		c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, cdq.TaskType).Timeout)
		start(cdq.TaskType, cdq.NewHandler(c, rdb.Client, log).Handle)
	}

	{
		c := crq.LoadConfig()
		c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, crq.TaskType).Timeout)
		start(crq.TaskType, crq.NewHandler(c, pg.DB, log).Handle)
	}

	{
		c := sun.LoadConfig()
		c.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, sun.TaskType).Timeout)
		c.EmailEnabled = cfg.Notifications.Email.Enabled
		if cfg.Notifications.Email.FromEmail != "" {
			c.FromEmail = cfg.Notifications.Email.FromEmail
		}
		c.SalesTopicARN = cfg.Notifications.AWS.SalesTopicARN
		c.UpgradeURL = cfg.Notifications.UpgradeURL
		start(sun.TaskType, sun.NewHandler(c, pg.DB, sesClient, snsClient, log).Handle)
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- HTTP: health, metrics and entitlement API ---
	router := api.NewRouter(&api.Handlers{
		Health: api.NewHealthHandler(map[string]api.Pinger{
			"zeebe":         api.PingerFunc(zeebe.HealthCheck),
			"postgres":      pg,
			"redis":         rdb,
			"elasticsearch": esClient,
		}, log),
		Entitlement: api.NewEntitlementHandler(log),
	}, nil, log)

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}

	for _, w := range workers {
		w.Stop()
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(
	client zbc.Client,
	cfg *config.Config,
	taskType string,
	handler camunda.JobHandler,
	obs *observability.Observability,
	log *zap.Logger,
) *camunda.CamundaWorker {
	wcfg := config.GetWorkerConfig(cfg, taskType)
	return camunda.StartWorker(client, camunda.WorkerOptions{
		TaskType:      taskType,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}, handler, obs, log)
}
