package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

// OpenPostgres creates a pool and pings it. With traceSQL every statement is
// logged through logger at debug level.
func OpenPostgres(ctx context.Context, url string, logger *zap.Logger, traceSQL bool) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if traceSQL {
		cfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   NewZapTraceLogger(logger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg) // Создаем новое соединение к БД
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil { // Пытаемся пингануть БД
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

type zapTraceLogger struct {
	logger *zap.Logger
}

func NewZapTraceLogger(logger *zap.Logger) tracelog.Logger {
	return &zapTraceLogger{logger: logger.Named("pgx")}
}

func (l *zapTraceLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	fields := make([]zap.Field, 0, len(data))
	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}

	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		l.logger.Debug(msg, fields...)
	case tracelog.LogLevelInfo:
		l.logger.Info(msg, fields...)
	case tracelog.LogLevelWarn:
		l.logger.Warn(msg, fields...)
	default:
		l.logger.Error(msg, fields...)
	}
}
