package presence

import (
	"fmt"
	"sync"
	"testing"
)

type fakePeer struct {
	mu     sync.Mutex
	lines  []string
	closed bool
}

func (p *fakePeer) Deliver(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, line)
	return nil
}

func (p *fakePeer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func TestSetAndGet(t *testing.T) {
	r := NewRegistry()
	peer := &fakePeer{}

	if prev := r.Set("alice", peer); prev != nil {
		t.Fatalf("Set on empty registry returned previous peer %v", prev)
	}

	got, ok := r.Get("alice")
	if !ok {
		t.Fatal("Get missed a registered login")
	}
	if got != Peer(peer) {
		t.Fatal("Get returned a different peer")
	}

	if _, ok := r.Get("bob"); ok {
		t.Fatal("Get found an unregistered login")
	}
}

func TestSetReturnsSupersededPeer(t *testing.T) {
	r := NewRegistry()
	first := &fakePeer{}
	second := &fakePeer{}

	r.Set("alice", first)
	prev := r.Set("alice", second)
	if prev != Peer(first) {
		t.Fatal("Set did not return the superseded peer")
	}

	got, _ := r.Get("alice")
	if got != Peer(second) {
		t.Fatal("registry does not map to the newest peer")
	}
	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}
}

func TestCompareAndRemove(t *testing.T) {
	r := NewRegistry()
	old := &fakePeer{}
	current := &fakePeer{}

	r.Set("alice", old)
	r.Set("alice", current)

	// a stale session tearing down must not evict its replacement
	if r.Remove("alice", old) {
		t.Fatal("Remove evicted the registry entry for a stale peer")
	}
	if _, ok := r.Get("alice"); !ok {
		t.Fatal("current peer was removed by a stale teardown")
	}

	if !r.Remove("alice", current) {
		t.Fatal("Remove refused the current peer")
	}
	if _, ok := r.Get("alice"); ok {
		t.Fatal("peer still registered after removal")
	}

	// removing twice is a no-op
	if r.Remove("alice", current) {
		t.Fatal("second Remove reported success")
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			login := fmt.Sprintf("user%d", i%10)
			peer := &fakePeer{}
			r.Set(login, peer)
			r.Get(login)
			r.Remove(login, peer)
		}(i)
	}
	wg.Wait()

	r.Range(func(login string, peer Peer) bool {
		if peer == nil {
			t.Errorf("nil peer registered for %s", login)
		}
		return true
	})
}
