package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	authservice "github.com/apetrov/linechat/internal/auth/service"
	"github.com/apetrov/linechat/internal/chat/presence"
	"github.com/apetrov/linechat/internal/chat/session"
	"github.com/apetrov/linechat/internal/common/clock"
	commoncrypto "github.com/apetrov/linechat/internal/common/crypto"
	"github.com/apetrov/linechat/internal/common/logger"
	msgrepo "github.com/apetrov/linechat/internal/message/repository"
	msgservice "github.com/apetrov/linechat/internal/message/service"
	userrepo "github.com/apetrov/linechat/internal/user/repository"
)

func startTestServer(t *testing.T) (*Server, string, context.CancelFunc) {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	deps := session.Deps{
		Registry: presence.NewRegistry(),
		Auth:     authservice.NewAuthService(userrepo.NewMemoryRepository(clk), commoncrypto.NewIteratedHasher(), log),
		Messages: msgservice.NewMessageService(msgrepo.NewMemoryRepository(clk), log),
		Log:      log,
	}

	cfg := session.DefaultConfig()
	cfg.IdleTimeout = 5 * time.Second

	srv := New("127.0.0.1:0", deps, cfg, commoncrypto.NewUUIDSource(), log)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	var addr net.Addr
	deadline := time.Now().Add(2 * time.Second)
	for addr = srv.Addr(); addr == nil; addr = srv.Addr() {
		if time.Now().After(deadline) {
			t.Fatal("server did not bind in time")
		}
		select {
		case err := <-errCh:
			t.Fatalf("server exited early: %v", err)
		case <-time.After(5 * time.Millisecond):
		}
	}

	t.Cleanup(func() {
		cancel()
		srv.Shutdown()
	})
	return srv, addr.String(), cancel
}

type tcpClient struct {
	conn net.Conn
	r    *bufio.Reader
}

func dialTestServer(t *testing.T, addr string) *tcpClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("failed to dial server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &tcpClient{conn: conn, r: bufio.NewReader(conn)}
}

func (c *tcpClient) send(t *testing.T, line string) {
	t.Helper()
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("client write %q failed: %v", line, err)
	}
}

func (c *tcpClient) expect(t *testing.T, want string) {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if got := strings.TrimRight(line, "\n"); got != want {
		t.Fatalf("server replied %q, want %q", got, want)
	}
}

func TestServerEndToEnd(t *testing.T) {
	_, addr, _ := startTestServer(t)

	bob := dialTestServer(t, addr)
	bob.send(t, "/register bob pass1234")
	bob.expect(t, "Registration successful")

	alice := dialTestServer(t, addr)
	alice.send(t, "/register alice pass1234")
	alice.expect(t, "Registration successful")

	alice.send(t, "/msg bob hello over tcp")
	bob.expect(t, "From alice: hello over tcp")
	alice.expect(t, "Successful")

	bob.send(t, "/msg alice hi back")
	alice.expect(t, "From bob: hi back")
	bob.expect(t, "Successful")

	alice.send(t, "/history bob")
	alice.expect(t, "[2024-01-01 12:00:00] from alice to bob: hello over tcp")
	alice.expect(t, "[2024-01-01 12:00:00] from bob to alice: hi back")
}

func TestServerOfflineAcrossConnections(t *testing.T) {
	_, addr, _ := startTestServer(t)

	bob := dialTestServer(t, addr)
	bob.send(t, "/register bob pass1234")
	bob.expect(t, "Registration successful")
	bob.send(t, "/exit")

	// teardown unregisters before closing the socket, so EOF means bob
	// is fully offline
	bob.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := bob.r.ReadString('\n'); err != io.EOF {
		t.Fatalf("expected EOF after /exit, got err=%v", err)
	}

	alice := dialTestServer(t, addr)
	alice.send(t, "/register alice pass1234")
	alice.expect(t, "Registration successful")
	alice.send(t, "/msg bob missed you")
	alice.expect(t, "Successful")

	bob2 := dialTestServer(t, addr)
	bob2.send(t, "/login bob pass1234")
	bob2.expect(t, "Welcome!")
	bob2.expect(t, "[2024-01-01 12:00:00] alice: missed you")
}

func TestServerShutdownDrainsSessions(t *testing.T) {
	srv, addr, cancel := startTestServer(t)

	c := dialTestServer(t, addr)
	c.send(t, "/register alice pass1234")
	c.expect(t, "Registration successful")

	cancel()
	srv.Shutdown()

	// the session's connection is closed by shutdown
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.r.ReadString('\n'); err != io.EOF {
		t.Fatalf("expected EOF after shutdown, got err=%v", err)
	}

	// new connections are refused once the listener is down
	if conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond); err == nil {
		conn.Close()
		t.Fatal("server accepted a connection after shutdown")
	}
}
