package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/apetrov/linechat/internal/common/constants"
	commonerrors "github.com/apetrov/linechat/internal/common/errors"
)

type ServerConfig struct {
	ListenPort     string
	MetricsPort    string
	DatabaseURL    string
	IdleTimeout    time.Duration
	WriteWait      time.Duration
	SendTimeout    time.Duration
	SendBufSize    int
	RequestTimeout time.Duration
}

func LoadServerConfig() (ServerConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		ListenPort:     getEnv("CHAT_PORT", constants.DefaultListenPort),
		MetricsPort:    getEnv("CHAT_METRICS_PORT", constants.DefaultMetricsPort),
		DatabaseURL:    databaseURL,
		IdleTimeout:    getDurationEnv("CHAT_IDLE_TIMEOUT", constants.DefaultIdleTimeout),
		WriteWait:      getDurationEnv("CHAT_WRITE_WAIT", constants.DefaultWriteWait),
		SendTimeout:    getDurationEnv("CHAT_SEND_TIMEOUT", constants.DefaultSendTimeout),
		SendBufSize:    getIntEnv("CHAT_SEND_BUF_SIZE", constants.DefaultSendBufSize),
		RequestTimeout: getDurationEnv("CHAT_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
