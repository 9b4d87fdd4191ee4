package service

import (
	"context"
	"errors"

	commoncrypto "github.com/apetrov/linechat/internal/common/crypto"
	commonerrors "github.com/apetrov/linechat/internal/common/errors"
	"github.com/apetrov/linechat/internal/common/logger"
	"github.com/apetrov/linechat/internal/observability/metrics"
	"github.com/apetrov/linechat/internal/user/domain"
	userrepo "github.com/apetrov/linechat/internal/user/repository"
)

var (
	ErrLoginTaken         = commonerrors.ErrLoginAlreadyExists
	ErrInvalidCredentials = commonerrors.ErrInvalidCredentials
)

// AuthService is the credential store: it creates identities and verifies
// login/password pairs against the salted iterated digest.
type AuthService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	log    *logger.Logger
}

func NewAuthService(repo userrepo.Repository, hasher commoncrypto.PasswordHasher, log *logger.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		log:    log,
	}
}

func (s *AuthService) Register(ctx context.Context, login, password string) error {
	if err := validateCredentials(login, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  login,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		metrics.AuthAttemptsTotal.WithLabelValues("register", "validation_failed").Inc()
		return err
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  login,
			"action": "register_salt_failed",
		}).Errorf("register failed: salt generation error: %v", err)
		return err
	}

	hash, err := s.hasher.Hash(password, salt)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  login,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return err
	}

	user := domain.User{
		Login:        login,
		Salt:         salt,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrLoginAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"login":  login,
				"action": "register_login_taken",
			}).Warn("register failed: login already taken")
			metrics.AuthAttemptsTotal.WithLabelValues("register", "login_taken").Inc()
			return ErrLoginTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"login":  login,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"login":  login,
		"action": "register_success",
	}).Info("user registered")
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()

	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, login, password string) error {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "unknown_login").Inc()
			return ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"login":  login,
			"action": "login_lookup_failed",
		}).Errorf("login failed: %v", err)
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, password, user.Salt); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"login":  login,
			"action": "login_bad_password",
		}).Warn("login failed: password mismatch")
		metrics.AuthAttemptsTotal.WithLabelValues("login", "bad_password").Inc()
		return ErrInvalidCredentials
	}

	s.log.WithFields(ctx, logger.Fields{
		"login":  login,
		"action": "login_success",
	}).Info("user logged in")
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	return nil
}

func (s *AuthService) Exists(ctx context.Context, login string) (bool, error) {
	return s.repo.Exists(ctx, login)
}
