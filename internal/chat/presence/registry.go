package presence

import "sync"

// Peer is the live session handle stored in the registry. Deliver must be
// safe to call from any goroutine and return promptly.
type Peer interface {
	Deliver(line string) error
	Close()
}

// Registry is the process-wide map from authenticated login to its active
// session. At most one entry exists per login; the last registration wins.
type Registry struct {
	sessions sync.Map
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Set registers peer under login and returns the superseded peer, if any.
func (r *Registry) Set(login string, peer Peer) Peer {
	prev, loaded := r.sessions.Swap(login, peer)
	if !loaded {
		return nil
	}
	return prev.(Peer)
}

func (r *Registry) Get(login string) (Peer, bool) {
	value, ok := r.sessions.Load(login)
	if !ok {
		return nil, false
	}
	return value.(Peer), true
}

// Remove unregisters login only while it still maps to peer, so a stale
// session tearing down cannot evict the session that replaced it.
func (r *Registry) Remove(login string, peer Peer) bool {
	return r.sessions.CompareAndDelete(login, peer)
}

func (r *Registry) Range(fn func(login string, peer Peer) bool) {
	r.sessions.Range(func(key, value interface{}) bool {
		return fn(key.(string), value.(Peer))
	})
}

func (r *Registry) Count() int {
	count := 0
	r.sessions.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}
