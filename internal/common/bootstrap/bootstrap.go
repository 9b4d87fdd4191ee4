package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	authservice "github.com/apetrov/linechat/internal/auth/service"
	"github.com/apetrov/linechat/internal/chat/presence"
	"github.com/apetrov/linechat/internal/common/config"
	commoncrypto "github.com/apetrov/linechat/internal/common/crypto"
	"github.com/apetrov/linechat/internal/common/db"
	"github.com/apetrov/linechat/internal/common/logger"
	msgrepo "github.com/apetrov/linechat/internal/message/repository"
	msgservice "github.com/apetrov/linechat/internal/message/service"
	userrepo "github.com/apetrov/linechat/internal/user/repository"
)

// App wires the process-wide collaborators: config, logger, database
// pool, repositories, services, and the presence registry.
type App struct {
	Log      *logger.Logger
	Config   config.ServerConfig
	Pool     *pgxpool.Pool
	Registry *presence.Registry
	Auth     *authservice.AuthService
	Messages *msgservice.MessageService
	Trace    commoncrypto.TraceSource
}

func NewApp() (*App, error) {
	log, err := logger.New(os.Getenv("LOG_DIR"), "chat", os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
		return nil, err
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	if pool == nil {
		return nil, fmt.Errorf("failed to initialize database pool")
	}

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
		return nil, err
	}

	users := userrepo.NewPgRepository(pool)
	messages := msgrepo.NewPgRepository(pool)
	hasher := commoncrypto.NewIteratedHasher()

	return &App{
		Log:      log,
		Config:   cfg,
		Pool:     pool,
		Registry: presence.NewRegistry(),
		Auth:     authservice.NewAuthService(users, hasher, log),
		Messages: msgservice.NewMessageService(messages, log),
		Trace:    commoncrypto.NewUUIDSource(),
	}, nil
}
