package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/apetrov/linechat/internal/chat/session"
	"github.com/apetrov/linechat/internal/common/constants"
	commoncrypto "github.com/apetrov/linechat/internal/common/crypto"
	"github.com/apetrov/linechat/internal/common/logger"
)

// Server accepts TCP connections and runs one session per connection,
// fire-and-forget. A session's fate never affects the accept loop.
type Server struct {
	addr  string
	deps  session.Deps
	cfg   session.Config
	trace commoncrypto.TraceSource
	log   *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	sessions sync.Map
	wg       sync.WaitGroup
}

func New(addr string, deps session.Deps, cfg session.Config, trace commoncrypto.TraceSource, log *logger.Logger) *Server {
	return &Server{
		addr:  addr,
		deps:  deps,
		cfg:   cfg,
		trace: trace,
		log:   log,
	}
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.log.Infof("chat server listening on %s", s.addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Errorf("accept error: %v", err)
			return err
		}

		sessCtx := s.sessionContext(ctx)
		sess := session.New(sessCtx, conn, s.deps, s.cfg)

		s.sessions.Store(sess, struct{}{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.sessions.Delete(sess)
			sess.Run()
		}()
	}
}

// Shutdown closes every live session, registered or not, and waits for
// the per-session goroutines to drain.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	s.sessions.Range(func(key, _ interface{}) bool {
		key.(*session.Session).Close()
		return true
	})

	s.wg.Wait()
	s.log.Info("chat server stopped")
}

// Addr reports the bound listen address, useful when the port is 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) sessionContext(ctx context.Context) context.Context {
	traceID, err := s.trace.NextID()
	if err != nil || traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, constants.TraceIDKey, traceID)
}
