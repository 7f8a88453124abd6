package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/internal/config"
	"github.com/BuzzLyutic/todo-api/internal/handler"
	"github.com/BuzzLyutic/todo-api/internal/idempotency"
	"github.com/BuzzLyutic/todo-api/internal/logger"
	"github.com/BuzzLyutic/todo-api/internal/repo"
	"github.com/BuzzLyutic/todo-api/internal/service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Подключаем логгер
	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Подключаем хранилище
	todoRepo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	keys, closeKeys, err := openKeyStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeKeys()

	todoService := service.NewTodoService(todoRepo, keys, logger)
	if cfg.Seed {
		n, err := todoService.Seed(ctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("Seeded sample todos", zap.Int("count", n))
	}

	r := handler.NewRouter(handler.NewTodoHandler(todoService, logger), logger)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped successfully!")
	return nil
}

func openRepository(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.TodoRepository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := repo.OpenPostgres(ctx, cfg.DatabaseURL, logger, cfg.Development())
		if err != nil {
			return nil, nil, err
		}
		pgRepo := repo.NewTodoRepo(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("Successfully connected to the Database!", zap.String("store", cfg.Store))
		return pgRepo, pool.Close, nil

	case config.StoreMySQL:
		db, err := repo.OpenMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		mysqlRepo := repo.NewMySQLRepo(db)
		if err := mysqlRepo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Successfully connected to the Database!", zap.String("store", cfg.Store))
		return mysqlRepo, func() { db.Close() }, nil

	default:
		return repo.NewMemoryRepo(), func() {}, nil
	}
}

func openKeyStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (idempotency.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("Connected to redis", zap.String("addr", cfg.RedisAddr))
	return idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL), func() { rdb.Close() }, nil
}
