// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"travel-inquiry-workers/internal/common/aws"
	"travel-inquiry-workers/internal/common/config"
	"travel-inquiry-workers/internal/common/database"
	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/common/observability"

	sq "travel-inquiry-workers/internal/workers/communication/send-quote"
	fe "travel-inquiry-workers/internal/workers/ingestion/fetch-emails"
	ci "travel-inquiry-workers/internal/workers/inquiry/classify-inquiry"
	dl "travel-inquiry-workers/internal/workers/inquiry/detect-language"
	ef "travel-inquiry-workers/internal/workers/inquiry/extract-fields"
	pi "travel-inquiry-workers/internal/workers/inquiry/process-inquiry"
	sl "travel-inquiry-workers/internal/workers/inquiry/segment-legs"
	si "travel-inquiry-workers/internal/workers/inquiry/store-inquiry"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register inquiry pipeline workers ---

	// --- 1. Pipeline Stage Workers (5) ---
	if cfg.Workers[dl.TaskType].Enabled {
		handler := dl.NewHandler(nil, log)
		startWorker(zeebeClient, dl.TaskType, cfg.Workers[dl.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ci.TaskType].Enabled {
		handler := ci.NewHandler(nil, log)
		startWorker(zeebeClient, ci.TaskType, cfg.Workers[ci.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ef.TaskType].Enabled {
		efConfig := ef.LoadConfig()
		if cfg.Pipeline.DefaultCurrency != "" {
			efConfig.DefaultCurrency = cfg.Pipeline.DefaultCurrency
		}
		handler := ef.NewHandler(efConfig, log)
		startWorker(zeebeClient, ef.TaskType, cfg.Workers[ef.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sl.TaskType].Enabled {
		handler := sl.NewHandler(nil, log)
		startWorker(zeebeClient, sl.TaskType, cfg.Workers[sl.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[pi.TaskType].Enabled {
		piConfig := pi.LoadConfig()
		piConfig.CacheEnabled = cfg.Pipeline.CacheEnabled
		if cfg.Pipeline.CacheTTLMinutes > 0 {
			piConfig.CacheTTL = time.Duration(cfg.Pipeline.CacheTTLMinutes) * time.Minute
		}
		if cfg.Pipeline.DefaultCurrency != "" {
			piConfig.DefaultCurrency = cfg.Pipeline.DefaultCurrency
		}
		handler := pi.NewHandler(piConfig, log, redis)
		startWorker(zeebeClient, pi.TaskType, cfg.Workers[pi.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Persistence Worker (1) ---
	if cfg.Workers[si.TaskType].Enabled {
		siConfig := si.LoadConfig()
		if cfg.Database.Elasticsearch.Index != "" {
			siConfig.Index = cfg.Database.Elasticsearch.Index
		}
		handler := si.NewHandler(siConfig, pg.DB, esClient, log)
		startWorker(zeebeClient, si.TaskType, cfg.Workers[si.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Ingestion Worker (1) ---
	if cfg.Workers[fe.TaskType].Enabled {
		feConfig := fe.FromMailbox(cfg.Mailbox)
		gmail := fe.NewGmailClient(feConfig, fe.NewOAuthHTTPClient(ctx, feConfig))
		dedupe := fe.NewRedisDeduper(redis.Client, feConfig.DedupeKeyPrefix, feConfig.DedupeTTL)
		handler := fe.NewHandler(feConfig, gmail, dedupe, log)
		startWorker(zeebeClient, fe.TaskType, cfg.Workers[fe.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Outbound Worker (1) ---
	if cfg.Workers[sq.TaskType].Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Quotes.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Quotes.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
		handler := sq.NewHandler(sq.FromQuotes(cfg.Quotes), sesClient, snsClient, log)
		startWorker(zeebeClient, sq.TaskType, cfg.Workers[sq.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 8 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
