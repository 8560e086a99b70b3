// Package backend implements the backend session manager: it launches
// backend child processes over stdio, holds their MCP sessions open,
// discovers their catalogs, and forwards typed requests, handling
// concurrent fan-out, reconnection and cancellation.
package backend

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hughescr/mcp-proxy-processor/internal/logging"
	"github.com/hughescr/mcp-proxy-processor/internal/mcperr"
	"github.com/hughescr/mcp-proxy-processor/internal/mcpio"
	"github.com/hughescr/mcp-proxy-processor/internal/model"

	"github.com/mark3labs/mcp-go/mcp"
)

// discoveryTimeout bounds a single backend's list_tools/list_resources/
// list_prompts round trip.
const discoveryTimeout = 10 * time.Second

// reconnectAttempts and reconnectBackoff implement a fixed 3-try,
// 200ms/1s/5s backoff schedule for discovery-time connect failures.
const reconnectAttempts = 3

var reconnectBackoff = []time.Duration{200 * time.Millisecond, 1 * time.Second, 5 * time.Second}

// clientName/clientVersion identify this proxy to backends during the MCP
// initialize handshake.
const (
	clientName    = "mcp-proxy"
	clientVersion = "0.1.0"
)

// Manager owns every live backend session. It is the sole writer of the
// sessions map (single-writer discipline); readers take a brief lock to
// capture a *session reference and then operate on it unlocked.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	configs  map[string]model.BackendServerConfig
	dial     Dialer
}

// NewManager builds a Manager for the given backend-servers.json contents.
// dial is the stdio spawn strategy; pass nil in production to use
// mcpio.NewStdioClient, or a fake in tests.
func NewManager(configs map[string]model.BackendServerConfig, dial Dialer) *Manager {
	if dial == nil {
		dial = defaultDialer(configs)
	}
	return &Manager{
		sessions: make(map[string]*session),
		configs:  configs,
		dial:     dial,
	}
}

func defaultDialer(configs map[string]model.BackendServerConfig) Dialer {
	return func(name string) (mcpio.BackendClient, error) {
		cfg, ok := configs[name]
		if !ok {
			return nil, fmt.Errorf("unknown backend %q", name)
		}
		sc, err := mcpio.NewStdioClient(mcpio.StdioSpawnOptions{
			Command: cfg.Command,
			Args:    cfg.Args,
			Env:     mergeEnv(cfg.Env),
			Cwd:     cfg.Cwd,
			Stderr:  logging.StderrWriter(name),
		})
		if err != nil {
			return nil, err
		}
		return sc, nil
	}
}

// mergeEnv implements the whitelist-plus-per-server-env policy of §4.4: the
// proxy's own environment (os.Environ, filtered to a small safe whitelist)
// plus whatever the server config adds.
func mergeEnv(extra map[string]string) []string {
	out := whitelistedEnv()
	for k, v := range extra {
		out = append(out, k+"="+v)
	}
	return out
}

// envWhitelist are the host environment variables backends may see by
// default: enough for well-behaved child processes to locate binaries and
// a home directory, nothing proxy-internal.
var envWhitelist = []string{"PATH", "HOME", "LANG", "TMPDIR", "USER"}

func whitelistedEnv() []string {
	var out []string
	for _, k := range envWhitelist {
		if v := os.Getenv(k); v != "" {
			out = append(out, k+"="+v)
		}
	}
	return out
}

func (m *Manager) sessionFor(name string) *session {
	m.mu.RLock()
	s, ok := m.sessions[name]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[name]; ok {
		return s
	}
	s = newSession(name)
	m.sessions[name] = s
	return s
}

// EnsureStarted idempotently brings a backend up: new/failed -> starting ->
// ready. Concurrent calls for the same backend coalesce on the session's
// own startMu, so only one actually spawns the process.
func (m *Manager) EnsureStarted(ctx context.Context, serverName string) error {
	if _, ok := m.configs[serverName]; !ok {
		return mcperr.ConfigInvalid("", fmt.Sprintf("unknown backend %q", serverName), nil)
	}

	s := m.sessionFor(serverName)
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.getState() == StateReady {
		return nil
	}

	s.setState(StateStarting)

	hctx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()

	client, err := m.dial(serverName)
	if err != nil {
		s.setFailed(err)
		return mcperr.BackendUnavailable(serverName)
	}

	if _, err := client.Initialize(hctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: clientName, Version: clientVersion},
		},
	}); err != nil {
		s.setFailed(err)
		_ = client.Close()
		return mcperr.BackendUnavailable(serverName)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
	s.setState(StateReady)
	return nil
}

// ensureStartedWithRetry applies the discovery-time reconnect policy: up to
// reconnectAttempts tries with the fixed backoff schedule of §4.4.
func (m *Manager) ensureStartedWithRetry(ctx context.Context) func(serverName string) error {
	return func(serverName string) error {
		_, err := backoff.Retry(ctx, func() (struct{}, error) {
			return struct{}{}, m.EnsureStarted(ctx, serverName)
		},
			backoff.WithMaxTries(reconnectAttempts),
			backoff.WithBackOff(&fixedScheduleBackoff{schedule: reconnectBackoff}),
		)
		return err
	}
}

// fixedScheduleBackoff implements backoff.BackOff with an exact 200ms/1s/5s
// schedule, rather than an open-ended exponential curve.
type fixedScheduleBackoff struct {
	schedule []time.Duration
	n        int
}

func (b *fixedScheduleBackoff) NextBackOff() time.Duration {
	if b.n >= len(b.schedule) {
		return backoff.Stop
	}
	d := b.schedule[b.n]
	b.n++
	return d
}

func (b *fixedScheduleBackoff) Reset() { b.n = 0 }

// DiscoverAll fans out list_tools/list_resources/list_prompts across every
// configured backend concurrently. A single backend's failure never fails
// the whole operation: it is reported as an empty catalog plus an error
// entry, mirroring the per-server isolation pattern other MCP gateways in
// this corpus use for capability listing.
func (m *Manager) DiscoverAll(ctx context.Context) (map[string]model.Catalog, map[string]error) {
	catalogs := make(map[string]model.Catalog, len(m.configs))
	errs := make(map[string]error)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	ensure := m.ensureStartedWithRetry(gctx)

	for name := range m.configs {
		name := name
		g.Go(func() error {
			cat, err := m.discoverOne(gctx, name, ensure)
			mu.Lock()
			catalogs[name] = cat
			if err != nil {
				errs[name] = err
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return catalogs, errs
}

func (m *Manager) discoverOne(ctx context.Context, name string, ensure func(string) error) (model.Catalog, error) {
	dctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	if err := ensure(name); err != nil {
		return model.Catalog{}, err
	}

	s := m.sessionFor(name)
	client, state := s.snapshotClient()
	if state != StateReady {
		return model.Catalog{}, mcperr.BackendUnavailable(name)
	}

	var cat model.Catalog

	if tools, err := client.ListTools(dctx, mcp.ListToolsRequest{}); err != nil {
		logging.Warnf("backend %s: list_tools failed: %v", name, err)
	} else {
		for _, t := range tools.Tools {
			cat.Tools = append(cat.Tools, mcpio.ConvertTool(t))
		}
	}

	if resources, err := client.ListResources(dctx, mcp.ListResourcesRequest{}); err != nil {
		logging.Warnf("backend %s: list_resources failed: %v", name, err)
	} else {
		for _, r := range resources.Resources {
			cat.Resources = append(cat.Resources, mcpio.ConvertResource(r))
		}
	}

	if prompts, err := client.ListPrompts(dctx, mcp.ListPromptsRequest{}); err != nil {
		logging.Warnf("backend %s: list_prompts failed: %v", name, err)
	} else {
		for _, p := range prompts.Prompts {
			cat.Prompts = append(cat.Prompts, mcpio.ConvertPrompt(p))
		}
	}

	s.setCatalog(cat)
	return cat, nil
}

// CallTool invokes a tool on the named backend, serialized per-backend.
func (m *Manager) CallTool(ctx context.Context, serverName, toolName string, args map[string]any) (*mcp.CallToolResult, error) {
	s := m.sessionFor(serverName)
	var result *mcp.CallToolResult
	err := s.call(ctx, func(cctx context.Context, c mcpio.BackendClient) error {
		req := mcp.CallToolRequest{}
		req.Params.Name = toolName
		req.Params.Arguments = args
		r, err := c.CallTool(cctx, req)
		result = r
		return err
	})
	return result, err
}

// ReadResource reads a resource URI from the named backend.
func (m *Manager) ReadResource(ctx context.Context, serverName, uri string) (*mcp.ReadResourceResult, error) {
	s := m.sessionFor(serverName)
	var result *mcp.ReadResourceResult
	err := s.call(ctx, func(cctx context.Context, c mcpio.BackendClient) error {
		req := mcp.ReadResourceRequest{}
		req.Params.URI = uri
		r, err := c.ReadResource(cctx, req)
		result = r
		return err
	})
	return result, err
}

// GetPrompt fetches a prompt from the named backend.
func (m *Manager) GetPrompt(ctx context.Context, serverName, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	s := m.sessionFor(serverName)
	var result *mcp.GetPromptResult
	err := s.call(ctx, func(cctx context.Context, c mcpio.BackendClient) error {
		req := mcp.GetPromptRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		r, err := c.GetPrompt(cctx, req)
		result = r
		return err
	})
	return result, err
}

// Shutdown closes every session, idempotently. Each backend gets grace to
// close cleanly; after that, a backend spawned as an mcpio.SpawnedClient has
// its process killed. Shutdown returns early if ctx is done first.
func (m *Manager) Shutdown(ctx context.Context, grace time.Duration) {
	m.mu.RLock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.shutdownOne(s, grace)
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (m *Manager) shutdownOne(s *session, grace time.Duration) {
	client, state := s.snapshotClient()
	if state != StateReady && state != StateStarting {
		return
	}
	s.setState(StateStopping)
	if client == nil {
		return
	}

	closed := make(chan error, 1)
	go func() { closed <- client.Close() }()

	select {
	case err := <-closed:
		if err != nil {
			logging.Warnf("backend %s: close returned error: %v", s.name, err)
		}
	case <-time.After(grace):
		logging.Warnf("backend %s: did not close within grace period, killing", s.name)
		if sc, ok := client.(*mcpio.SpawnedClient); ok && sc.Cmd != nil && sc.Cmd.Process != nil {
			_ = sc.Cmd.Process.Kill()
		}
	}
	s.setState(StateStopped)
}
