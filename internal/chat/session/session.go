package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	authservice "github.com/apetrov/linechat/internal/auth/service"
	"github.com/apetrov/linechat/internal/chat/presence"
	"github.com/apetrov/linechat/internal/common/constants"
	commonerrors "github.com/apetrov/linechat/internal/common/errors"
	"github.com/apetrov/linechat/internal/common/logger"
	msgservice "github.com/apetrov/linechat/internal/message/service"
	"github.com/apetrov/linechat/internal/observability/metrics"
)

type Config struct {
	IdleTimeout    time.Duration
	WriteWait      time.Duration
	SendTimeout    time.Duration
	SendBufSize    int
	RequestTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		IdleTimeout:    constants.DefaultIdleTimeout,
		WriteWait:      constants.DefaultWriteWait,
		SendTimeout:    constants.DefaultSendTimeout,
		SendBufSize:    constants.DefaultSendBufSize,
		RequestTimeout: constants.DefaultRequestTimeout,
	}
}

type Deps struct {
	Registry *presence.Registry
	Auth     *authservice.AuthService
	Messages *msgservice.MessageService
	Log      *logger.Logger
}

// Session owns one client connection: the authentication state machine,
// the command dispatch loop, and the outbound write pump. Other sessions
// deliver to it only through its send channel.
type Session struct {
	conn     net.Conn
	registry *presence.Registry
	auth     *authservice.AuthService
	messages *msgservice.MessageService
	log      *logger.Logger
	cfg      Config
	ctx      context.Context

	mu            sync.Mutex
	login         string
	authenticated bool

	send      chan string
	done      chan struct{}
	closeOnce sync.Once
}

func New(ctx context.Context, conn net.Conn, deps Deps, cfg Config) *Session {
	if cfg.SendBufSize <= 0 {
		cfg.SendBufSize = constants.DefaultSendBufSize
	}
	return &Session{
		conn:     conn,
		registry: deps.Registry,
		auth:     deps.Auth,
		messages: deps.Messages,
		log:      deps.Log,
		cfg:      cfg,
		ctx:      ctx,
		send:     make(chan string, cfg.SendBufSize),
		done:     make(chan struct{}),
	}
}

// Run blocks until the connection ends. Teardown always runs, on every
// exit path, and is idempotent.
func (s *Session) Run() {
	metrics.ChatSessionsActive.Inc()
	defer metrics.ChatSessionsActive.Dec()
	defer s.Close()

	s.log.WithFields(s.ctx, logger.Fields{
		"remote": s.conn.RemoteAddr().String(),
		"action": "session_start",
	}).Info("connection established")

	go s.writePump()
	s.readLoop()
}

func (s *Session) readLoop() {
	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, 1024), constants.MaxLineLength)

	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
			return
		}

		if !scanner.Scan() {
			err := scanner.Err()
			switch {
			case err == nil:
				// peer closed the connection
			case isTimeout(err):
				s.log.WithFields(s.ctx, logger.Fields{
					"login":  s.currentLogin(),
					"action": "session_idle_timeout",
				}).Info("session closed after idle timeout")
				metrics.ChatSessionErrors.WithLabelValues("idle_timeout").Inc()
			case errors.Is(err, net.ErrClosed):
				// closed by teardown
			default:
				s.log.WithFields(s.ctx, logger.Fields{
					"login":  s.currentLogin(),
					"action": "session_read_error",
				}).Warnf("session read error: %v", err)
				metrics.ChatSessionErrors.WithLabelValues("read").Inc()
			}
			return
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "/exit" {
			return
		}

		s.dispatch(line)
	}
}

func (s *Session) dispatch(line string) {
	if s.isAuthenticated() {
		s.dispatchAuthenticated(line)
		return
	}
	s.dispatchUnauthenticated(line)
}

func (s *Session) dispatchUnauthenticated(line string) {
	fields := strings.SplitN(line, " ", 3)

	switch fields[0] {
	case "/register":
		if len(fields) < 3 {
			s.reply("Please enter your login and password correctly.")
			return
		}
		s.handleRegister(fields[1], fields[2])

	case "/login":
		if len(fields) < 3 {
			s.reply("Please enter your login and password correctly.")
			return
		}
		s.handleLogin(fields[1], fields[2])

	case "/msg", "/history":
		s.reply("Please register or log in first.")

	default:
		s.reply("Enter the correct command")
	}
}

func (s *Session) dispatchAuthenticated(line string) {
	fields := strings.SplitN(line, " ", 3)

	switch fields[0] {
	case "/msg":
		if len(fields) < 3 {
			s.reply("Please enter the recipient and message correctly.")
			return
		}
		s.handleMessage(fields[1], fields[2])

	case "/register", "/login":
		s.reply("You are already logged in")

	case "/history":
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 {
			s.reply("Please enter the command correctly to see message history")
			return
		}
		s.handleHistory(parts[1])

	default:
		s.reply("Enter the correct command")
	}
}

func (s *Session) handleRegister(login, password string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	defer cancel()

	err := s.auth.Register(ctx, login, password)
	switch {
	case err == nil:
		s.becomeAuthenticated(login)
		s.reply("Registration successful")
		metrics.ChatCommandsTotal.WithLabelValues("register", "ok").Inc()

	case errors.Is(err, authservice.ErrLoginTaken):
		s.reply("Login already taken")
		metrics.ChatCommandsTotal.WithLabelValues("register", "login_taken").Inc()

	case isValidationError(err):
		s.reply("Please enter your login and password correctly.")
		metrics.ChatCommandsTotal.WithLabelValues("register", "invalid").Inc()

	default:
		s.reply("Registration failed")
		metrics.ChatCommandsTotal.WithLabelValues("register", "error").Inc()
	}
}

func (s *Session) handleLogin(login, password string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	defer cancel()

	if err := s.auth.Authenticate(ctx, login, password); err != nil {
		s.reply("Uncorrected login or password")
		metrics.ChatCommandsTotal.WithLabelValues("login", "rejected").Inc()
		return
	}

	s.becomeAuthenticated(login)
	s.reply("Welcome!")
	metrics.ChatCommandsTotal.WithLabelValues("login", "ok").Inc()

	lines, err := s.messages.FlushOffline(ctx, login)
	if err != nil {
		// backlog stays undelivered and is retried on the next login
		return
	}
	for _, line := range lines {
		s.reply(line)
	}
}

func (s *Session) handleMessage(target, body string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	defer cancel()

	exists, err := s.auth.Exists(ctx, target)
	if err != nil {
		s.log.WithFields(s.ctx, logger.Fields{
			"login":  s.currentLogin(),
			"target": target,
			"action": "msg_target_check_failed",
		}).Errorf("failed to check message target: %v", err)
		metrics.ChatCommandsTotal.WithLabelValues("msg", "error").Inc()
		s.reply(fmt.Sprintf("User %s is not found", target))
		return
	}
	if !exists {
		s.reply(fmt.Sprintf("User %s is not found", target))
		metrics.ChatCommandsTotal.WithLabelValues("msg", "unknown_target").Inc()
		return
	}

	sender := s.currentLogin()
	delivered := false

	if peer, ok := s.registry.Get(target); ok {
		if err := peer.Deliver(fmt.Sprintf("From %s: %s", sender, body)); err == nil {
			delivered = true
			s.log.WithFields(s.ctx, logger.Fields{
				"from":   sender,
				"to":     target,
				"action": "msg_delivered",
			}).Info("message delivered")
		} else {
			s.log.WithFields(s.ctx, logger.Fields{
				"from":   sender,
				"to":     target,
				"action": "msg_delivery_failed",
			}).Warnf("live delivery failed, saving offline: %v", err)
		}
	}

	// persisted in all cases; the store assigns the timestamp
	if err := s.messages.Save(ctx, sender, target, body, delivered); err != nil {
		metrics.ChatCommandsTotal.WithLabelValues("msg", "save_failed").Inc()
	} else {
		metrics.ChatCommandsTotal.WithLabelValues("msg", "ok").Inc()
	}

	s.reply("Successful")
}

func (s *Session) handleHistory(user string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RequestTimeout)
	defer cancel()

	exists, err := s.auth.Exists(ctx, user)
	if err != nil {
		s.log.WithFields(s.ctx, logger.Fields{
			"login":  s.currentLogin(),
			"user":   user,
			"action": "history_user_check_failed",
		}).Errorf("failed to check history target: %v", err)
		metrics.ChatCommandsTotal.WithLabelValues("history", "error").Inc()
		s.reply(fmt.Sprintf("User %s is not found", user))
		return
	}
	if !exists {
		s.reply(fmt.Sprintf("User %s is not found", user))
		metrics.ChatCommandsTotal.WithLabelValues("history", "unknown_target").Inc()
		return
	}

	lines, err := s.messages.History(ctx, s.currentLogin(), user)
	if err != nil {
		metrics.ChatCommandsTotal.WithLabelValues("history", "error").Inc()
		s.reply(fmt.Sprintf("There are no messages with %s.", user))
		return
	}

	if len(lines) == 0 {
		s.reply(fmt.Sprintf("There are no messages with %s.", user))
	} else {
		for _, line := range lines {
			s.reply(line)
		}
	}
	metrics.ChatCommandsTotal.WithLabelValues("history", "ok").Inc()
}

// becomeAuthenticated binds the login to this session and registers it.
// A session for the same login on another connection is superseded and
// closed; compare-and-remove in Close keeps its teardown from evicting us.
func (s *Session) becomeAuthenticated(login string) {
	s.mu.Lock()
	s.login = login
	s.authenticated = true
	s.mu.Unlock()

	if prev := s.registry.Set(login, s); prev != nil {
		s.log.WithFields(s.ctx, logger.Fields{
			"login":  login,
			"action": "session_superseded",
		}).Info("closing existing session for login")
		prev.Close()
	}
}

func (s *Session) isAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) currentLogin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login
}

// Deliver enqueues one line for this session's write pump. Safe for
// concurrent callers; bounded by the send timeout; fails cleanly once the
// session is closed.
func (s *Session) Deliver(line string) error {
	timer := time.NewTimer(s.cfg.SendTimeout)
	defer timer.Stop()

	select {
	case s.send <- line:
		return nil
	case <-s.done:
		return commonerrors.ErrSessionClosed
	case <-timer.C:
		return fmt.Errorf("send timeout after %v: %w", s.cfg.SendTimeout, commonerrors.ErrUserNotConnected)
	}
}

func (s *Session) reply(line string) {
	if err := s.Deliver(line); err != nil {
		metrics.ChatSessionErrors.WithLabelValues("reply").Inc()
		s.Close()
	}
}

func (s *Session) writePump() {
	for {
		select {
		case line := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait)); err != nil {
				s.Close()
				return
			}
			if _, err := s.conn.Write([]byte(line + "\n")); err != nil {
				if !errors.Is(err, net.ErrClosed) {
					s.log.WithFields(s.ctx, logger.Fields{
						"login":  s.currentLogin(),
						"action": "session_write_error",
					}).Warnf("session write error: %v", err)
					metrics.ChatSessionErrors.WithLabelValues("write").Inc()
				}
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// Close tears the session down: unregister first, then release the
// connection. Safe to call any number of times from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		login := s.login
		authenticated := s.authenticated
		s.mu.Unlock()

		if authenticated {
			s.registry.Remove(login, s)
		}
		close(s.done)
		s.conn.Close()

		s.log.WithFields(s.ctx, logger.Fields{
			"login":  login,
			"action": "session_closed",
		}).Info("connection closed")
	})
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isValidationError(err error) bool {
	de, ok := commonerrors.AsDomainError(err)
	return ok && de.Category() == commonerrors.CategoryValidation
}
