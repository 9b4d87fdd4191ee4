package constants

import "time"

const (
	LoginMinLength    = 3
	LoginMaxLength    = 32
	PasswordMinLength = 4
	PasswordMaxLength = 72

	SaltSizeBytes  = 16
	HashIterations = 100000

	MaxLineLength = 4096

	DefaultListenPort  = "9806"
	DefaultMetricsPort = "9100"

	DefaultIdleTimeout    = 5 * time.Minute
	DefaultWriteWait      = 10 * time.Second
	DefaultSendTimeout    = 2 * time.Second
	DefaultSendBufSize    = 64
	DefaultRequestTimeout = 5 * time.Second

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	MetricsReadHeaderTimeout = 10 * time.Second
	MetricsReadTimeout       = 30 * time.Second
	MetricsWriteTimeout      = 30 * time.Second
	MetricsIdleTimeout       = 120 * time.Second

	TimestampLayout = "2006-01-02 15:04:05"

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
