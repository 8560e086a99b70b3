package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hughescr/mcp-proxy-processor/internal/mcpio"
	"github.com/hughescr/mcp-proxy-processor/internal/model"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeClient is a minimal in-memory stand-in for mcpio.BackendClient.
type fakeClient struct {
	initErr   error
	closeErr  error
	tools     []mcp.Tool
	resources []mcp.Resource
	prompts   []mcp.Prompt
	callErr   error
	closed    bool
}

var _ mcpio.BackendClient = (*fakeClient)(nil)

func (f *fakeClient) Initialize(_ context.Context, _ mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &mcp.InitializeResult{}, nil
}

func (f *fakeClient) ListTools(_ context.Context, _ mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	return &mcp.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeClient) ListResources(_ context.Context, _ mcp.ListResourcesRequest) (*mcp.ListResourcesResult, error) {
	return &mcp.ListResourcesResult{Resources: f.resources}, nil
}

func (f *fakeClient) ListPrompts(_ context.Context, _ mcp.ListPromptsRequest) (*mcp.ListPromptsResult, error) {
	return &mcp.ListPromptsResult{Prompts: f.prompts}, nil
}

func (f *fakeClient) CallTool(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return &mcp.CallToolResult{}, nil
}

func (f *fakeClient) ReadResource(_ context.Context, _ mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{}, nil
}

func (f *fakeClient) GetPrompt(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{}, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return f.closeErr
}

func testConfigs() map[string]model.BackendServerConfig {
	return map[string]model.BackendServerConfig{
		"github": {Command: "github-mcp"},
		"files":  {Command: "files-mcp"},
	}
}

func dialerReturning(c mcpio.BackendClient, err error) Dialer {
	return func(string) (mcpio.BackendClient, error) { return c, err }
}

func TestEnsureStarted_TransitionsToReady(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	m := NewManager(testConfigs(), dialerReturning(fc, nil))

	err := m.EnsureStarted(context.Background(), "github")
	require.NoError(t, err)
	assert.Equal(t, StateReady, m.sessionFor("github").getState())
}

func TestEnsureStarted_Idempotent(t *testing.T) {
	t.Parallel()

	calls := 0
	m := NewManager(testConfigs(), func(string) (mcpio.BackendClient, error) {
		calls++
		return &fakeClient{}, nil
	})

	require.NoError(t, m.EnsureStarted(context.Background(), "github"))
	require.NoError(t, m.EnsureStarted(context.Background(), "github"))
	assert.Equal(t, 1, calls)
}

func TestEnsureStarted_UnknownBackend(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfigs(), func(string) (mcpio.BackendClient, error) {
		t.Fatal("dial should not be called for unknown backend")
		return nil, nil
	})

	err := m.EnsureStarted(context.Background(), "nope")
	require.Error(t, err)
}

func TestEnsureStarted_DialFailureSetsFailedState(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfigs(), dialerReturning(nil, errors.New("spawn failed")))

	err := m.EnsureStarted(context.Background(), "github")
	require.Error(t, err)
	assert.Equal(t, StateFailed, m.sessionFor("github").getState())
}

func TestEnsureStarted_InitializeFailureSetsFailedState(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{initErr: errors.New("handshake rejected")}
	m := NewManager(testConfigs(), dialerReturning(fc, nil))

	err := m.EnsureStarted(context.Background(), "github")
	require.Error(t, err)
	assert.Equal(t, StateFailed, m.sessionFor("github").getState())
	assert.True(t, fc.closed)
}

func TestCallTool_BackendUnavailableBeforeStart(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfigs(), nil)
	_, err := m.CallTool(context.Background(), "github", "create_issue", nil)
	require.Error(t, err)
}

func TestCallTool_ForwardsAfterStart(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	m := NewManager(testConfigs(), dialerReturning(fc, nil))
	require.NoError(t, m.EnsureStarted(context.Background(), "github"))

	result, err := m.CallTool(context.Background(), "github", "create_issue", map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestDiscoverAll_IsolatesPerBackendFailures(t *testing.T) {
	t.Parallel()

	good := &fakeClient{tools: []mcp.Tool{{Name: "create_issue"}}}
	m := NewManager(testConfigs(), func(name string) (mcpio.BackendClient, error) {
		if name == "files" {
			return nil, errors.New("files backend unreachable")
		}
		return good, nil
	})

	catalogs, errs := m.DiscoverAll(context.Background())
	assert.Len(t, catalogs["github"].Tools, 1)
	assert.Empty(t, catalogs["files"].Tools)
	assert.Error(t, errs["files"])
	assert.NoError(t, errs["github"])
}

func TestShutdown_ClosesReadySessions(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	m := NewManager(testConfigs(), dialerReturning(fc, nil))

	require.NoError(t, m.EnsureStarted(context.Background(), "github"))
	m.Shutdown(context.Background(), 2*time.Second)
	assert.True(t, fc.closed)
	assert.Equal(t, StateStopped, m.sessionFor("github").getState())
}

func TestShutdown_Idempotent(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfigs(), dialerReturning(&fakeClient{}, nil))
	m.Shutdown(context.Background(), time.Second)
	m.Shutdown(context.Background(), time.Second)
}

func TestStateMachine_IllegalTransitionIgnored(t *testing.T) {
	t.Parallel()

	s := newSession("x")
	s.setState(StateReady) // new -> ready is illegal; should stay new
	assert.Equal(t, StateNew, s.getState())
}

func TestStateMachine_FailedCanRestart(t *testing.T) {
	t.Parallel()

	s := newSession("x")
	s.setState(StateStarting)
	s.setFailed(errors.New("boom"))
	assert.Equal(t, StateFailed, s.getState())
	s.setState(StateStarting)
	assert.Equal(t, StateStarting, s.getState())
}
