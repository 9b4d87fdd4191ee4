package server

import (
	"net/http"

	"github.com/apetrov/linechat/internal/common/constants"
)

func NewMetricsServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: constants.MetricsReadHeaderTimeout,
		ReadTimeout:       constants.MetricsReadTimeout,
		WriteTimeout:      constants.MetricsWriteTimeout,
		IdleTimeout:       constants.MetricsIdleTimeout,
	}
}
