package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/ticket-raiser/judge/internal/adapter/logging"
	"gitlab.com/ticket-raiser/judge/internal/adapter/postgres/problemrepository"
	"gitlab.com/ticket-raiser/judge/internal/adapter/postgres/submissionrepository"
	rabbitqueue "gitlab.com/ticket-raiser/judge/internal/adapter/rabbitmq/submissionqueue"
	redisqueue "gitlab.com/ticket-raiser/judge/internal/adapter/redis/submissionqueue"
	"gitlab.com/ticket-raiser/judge/internal/adapter/redis/workerport"
	"gitlab.com/ticket-raiser/judge/internal/adapter/sandbox/docker"
	"gitlab.com/ticket-raiser/judge/internal/config"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/core/services/judge"
	"gitlab.com/ticket-raiser/judge/internal/core/services/worker"
	"gitlab.com/ticket-raiser/judge/internal/handlers/health"
	http2 "gitlab.com/ticket-raiser/judge/internal/http"
	"gitlab.com/ticket-raiser/judge/internal/judgeengine"
)

const shutdownTimeout = 5 * time.Second

func main() {
	InitReader()
	os.Exit(run())
}

func run() int {
	sysCfg, err := config.NewSystemConfig()
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	logLevel := sysCfg.LogLevel
	if sysCfg.DebugMode {
		logLevel = "debug"
	}
	zapLogger, err := logging.NewZapLogger(logLevel)
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 1
	}
	defer zapLogger.Sync()

	hostname, _ := os.Hostname()
	logger := zapLogger.With("service", "judge-worker", "hostname", hostname)
	logger.Info("Starting judge worker", "queue_backend", sysCfg.QueueConfig.Backend)

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		return 1
	}
	defer db.Close()

	redisClient := newRedisClient(sysCfg.RedisConfig)
	defer redisClient.Close()

	queue, err := setupQueue(sysCfg, logger)
	if err != nil {
		logger.Error("Failed to set up queue", "error", err)
		return 1
	}

	// SECONDARY PORTS
	submissionRepo := submissionrepository.NewSubmissionRepository(db, sysCfg.PostgresConfig.Schema, logger)
	problemRepo := problemrepository.NewProblemRepository(db, sysCfg.PostgresConfig.Schema, logger)
	workerRepo := workerport.NewWorkerRepository(redisClient, sysCfg.WorkerConfig.Ttl(), logger)
	sandboxRunner := docker.NewRunner(sandboxConfig(sysCfg.SandboxConfig), logger)

	// services
	judgeSvc := judge.NewJudgeService(submissionRepo, problemRepo, sandboxRunner, logger)
	workerSvc := worker.NewWorkerStatusService(workerRepo, hostname, 2*sysCfg.WorkerConfig.HeartbeatInterval(), logger)
	engine := judgeengine.NewConsumerEngine(queue, judgeSvc, submissionRepo, workerSvc, logger, sysCfg.WorkerConfig.RetryBackoff())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerSvc.Register(ctx); err != nil {
		logger.Warn("Worker registry unavailable", "error", err)
	}
	go workerSvc.RunHeartbeat(ctx, sysCfg.WorkerConfig.HeartbeatInterval())

	//server
	var httpServer *http2.Server
	if sysCfg.HttpPort > 0 {
		provider := http2.NewServiceProvider(workerSvc, map[string]health.Checker{
			"queue":    queue,
			"database": submissionRepo,
		})
		httpServer = http2.NewServer(sysCfg.HttpPort, "judge-worker", *provider, logger)
		if err := httpServer.Init(); err != nil {
			logger.Error("Failed to init http server", "error", err)
			return 1
		}
		httpServer.Start(ctx)
	}

	engineDone := make(chan error, 1)
	go func() {
		engineDone <- engine.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logger.Info("Shutting down judge worker...", "signal", sig.String())
		cancel()
		if err := waitEngine(engineDone, queue, logger); err != nil {
			exitCode = 1
		}
	case err := <-engineDone:
		if err != nil {
			logger.Error("Judge consumer failed", "error", err)
			exitCode = 1
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if httpServer != nil {
		httpServer.Stop(shutdownCtx)
	}
	if err := workerSvc.Deregister(shutdownCtx); err != nil {
		logger.Warn("Failed to deregister worker", "error", err)
	}
	if err := queue.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		logger.Warn("Failed to close queue", "error", err)
	}

	logger.Info("Judge worker stopped")
	return exitCode
}

// waitEngine waits for the consumer to finish its current submission. A
// consumer still parked in a blocking pop after shutdownTimeout is released
// by closing the queue.
func waitEngine(engineDone <-chan error, queue secondary.SubmissionQueue, logger primary.Logger) error {
	select {
	case err := <-engineDone:
		return err
	case <-time.After(shutdownTimeout):
	}

	logger.Info("Closing queue to release blocked consumer")
	_ = queue.Close()
	return <-engineDone
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func newRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// setupQueue builds the configured queue backend. The redis queue owns its
// client so closing it never affects the worker registry.
func setupQueue(cfg *config.AppConfig, logger primary.Logger) (secondary.SubmissionQueue, error) {
	queueCfg := cfg.QueueConfig
	switch queueCfg.Backend {
	case config.QueueBackendRedis:
		return redisqueue.NewSubmissionQueue(newRedisClient(cfg.RedisConfig), queueCfg.Name, queueCfg.BlockTimeout(), logger), nil
	case config.QueueBackendAMQP:
		return rabbitqueue.NewSubmissionQueue(queueCfg.AmqpUrl, queueCfg.Name, logger)
	default:
		return nil, fmt.Errorf("unsupported queue backend %q", queueCfg.Backend)
	}
}

func sandboxConfig(cfg config.SandboxConfig) docker.Config {
	return docker.Config{
		DockerBinary:   cfg.DockerBinary,
		Image:          cfg.Image,
		Memory:         cfg.Memory,
		Cpus:           cfg.Cpus,
		PidsLimit:      cfg.PidsLimit,
		Grace:          cfg.Grace(),
		KillWait:       cfg.KillWait(),
		ArtifactDir:    cfg.ArtifactDir,
		MaxOutputBytes: cfg.MaxOutputBytes,
		MaxErrorLength: cfg.MaxErrorLength,
	}
}

// InitReader loads <env>.env when an environment name is given as the first
// argument, otherwise .env when present. Real environment variables win.
func InitReader() {
	if len(os.Args) >= 2 {
		environment := os.Args[1]
		if err := godotenv.Load(environment + ".env"); err != nil {
			log.Fatalf("Error loading %s.env file", environment)
		}
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}
}
