package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	chatserver "github.com/apetrov/linechat/internal/chat/server"
	"github.com/apetrov/linechat/internal/chat/session"
	"github.com/apetrov/linechat/internal/common/bootstrap"
	srv "github.com/apetrov/linechat/internal/common/server"
)

func main() {
	app, err := bootstrap.NewApp()
	if err != nil {
		os.Exit(1)
	}
	defer app.Pool.Close()

	log := app.Log
	cfg := app.Config

	sessionCfg := session.Config{
		IdleTimeout:    cfg.IdleTimeout,
		WriteWait:      cfg.WriteWait,
		SendTimeout:    cfg.SendTimeout,
		SendBufSize:    cfg.SendBufSize,
		RequestTimeout: cfg.RequestTimeout,
	}

	deps := session.Deps{
		Registry: app.Registry,
		Auth:     app.Auth,
		Messages: app.Messages,
		Log:      log,
	}

	chat := chatserver.New(":"+cfg.ListenPort, deps, sessionCfg, app.Trace, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := chat.ListenAndServe(ctx); err != nil {
			log.Fatalf("chat server error: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	metricsServer := srv.NewMetricsServer(cfg.MetricsPort, mux)

	srv.StartWithGracefulShutdown(metricsServer, log, "metrics", []srv.ShutdownHook{
		func(context.Context) error {
			cancel()
			chat.Shutdown()
			return nil
		},
	})
}
