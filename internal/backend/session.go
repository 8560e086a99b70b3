package backend

import (
	"context"
	"sync"
	"time"

	"github.com/hughescr/mcp-proxy-processor/internal/logging"
	"github.com/hughescr/mcp-proxy-processor/internal/mcperr"
	"github.com/hughescr/mcp-proxy-processor/internal/mcpio"
	"github.com/hughescr/mcp-proxy-processor/internal/model"
)

// handshakeTimeout bounds the MCP initialize handshake.
const handshakeTimeout = 30 * time.Second

// Dialer spawns a backend's stdio client. Production code uses
// mcpio.NewStdioClient; tests substitute a fake.
type Dialer func(name string) (mcpio.BackendClient, error)

// session is one live backend handle. Its mutex is single-writer for
// state/catalog/lastErr/restarts; outbound MCP calls are serialized through
// callMu so a backend's session sees one in-flight request at a time, while
// still allowing fan-out across backends.
type session struct {
	name string

	mu       sync.Mutex
	state    State
	client   mcpio.BackendClient
	catalog  model.Catalog
	lastErr  error
	restarts int

	startMu sync.Mutex // coalesces concurrent ensureStarted calls
	callMu  sync.Mutex // serializes outbound requests to this backend
}

func newSession(name string) *session {
	return &session{name: name, state: StateNew}
}

func (s *session) getState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) setState(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, next) {
		logging.Warnf("backend %s: ignoring illegal transition %s -> %s", s.name, s.state, next)
		return
	}
	s.state = next
}

func (s *session) setFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if canTransition(s.state, StateFailed) {
		s.state = StateFailed
	}
	s.lastErr = err
}

func (s *session) snapshotClient() (mcpio.BackendClient, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client, s.state
}

func (s *session) setCatalog(c model.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
}

func (s *session) getCatalog() model.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// call serializes one request against this backend's client, translating
// context cancellation into mcperr.Cancelled per §5.
func (s *session) call(ctx context.Context, fn func(context.Context, mcpio.BackendClient) error) error {
	client, state := s.snapshotClient()
	if state != StateReady || client == nil {
		return mcperr.BackendUnavailable(s.name)
	}

	s.callMu.Lock()
	defer s.callMu.Unlock()

	err := fn(ctx, client)
	if err != nil && ctx.Err() != nil {
		return mcperr.Cancelled(s.name)
	}
	return err
}
