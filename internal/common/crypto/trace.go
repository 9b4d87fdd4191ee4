package crypto

import "github.com/google/uuid"

// TraceSource issues the correlation identifier attached to each accepted
// connection's context and echoed in its log lines.
type TraceSource interface {
	NextID() (string, error)
}

type UUIDSource struct{}

func NewUUIDSource() *UUIDSource {
	return &UUIDSource{}
}

func (s *UUIDSource) NextID() (string, error) {
	return uuid.NewString(), nil
}
