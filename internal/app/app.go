// Package app wires the proxy's components together: loading config,
// bringing backends up, composing a group's virtual catalog, and serving it
// to the client over stdio. It mirrors how cmd/thv/app's command handlers
// assemble toolhive's own subsystems rather than leaving that wiring to
// main.go directly.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hughescr/mcp-proxy-processor/internal/backend"
	"github.com/hughescr/mcp-proxy-processor/internal/configstore"
	"github.com/hughescr/mcp-proxy-processor/internal/group"
	"github.com/hughescr/mcp-proxy-processor/internal/logging"
	"github.com/hughescr/mcp-proxy-processor/internal/mcperr"
	"github.com/hughescr/mcp-proxy-processor/internal/mcpio"
	"github.com/hughescr/mcp-proxy-processor/internal/model"
)

// shutdownGrace bounds how long a backend gets to close cleanly before the
// manager escalates to killing its process.
const shutdownGrace = 5 * time.Second

const (
	serverName    = "mcp-proxy"
	serverVersion = "0.1.0"
)

// LoadConfig reads and validates both config files, migrating any legacy
// ./config/ copy first.
func LoadConfig() (*model.BackendServersFile, *model.GroupsFile, error) {
	backends, err := configstore.LoadBackendServers()
	if err != nil {
		return nil, nil, err
	}
	groups, err := configstore.LoadGroups()
	if err != nil {
		return nil, nil, err
	}
	return backends, groups, nil
}

func knownBackendNames(bs *model.BackendServersFile) map[string]bool {
	known := make(map[string]bool, len(bs.MCPServers))
	for name := range bs.MCPServers {
		known[name] = true
	}
	return known
}

// Validate invariant-checks both loaded config files (the schema checks run
// in LoadConfig), without starting any backend process: the `validate` CLI
// subcommand's implementation.
func Validate(bs *model.BackendServersFile, gf *model.GroupsFile) error {
	return group.LoadAndValidate(gf, knownBackendNames(bs))
}

// ListBackends returns the configured backend names, sorted by the caller if
// display order matters.
func ListBackends(bs *model.BackendServersFile) []string {
	names := make([]string, 0, len(bs.MCPServers))
	for name := range bs.MCPServers {
		names = append(names, name)
	}
	return names
}

// ListGroups returns the configured group names.
func ListGroups(gf *model.GroupsFile) []string {
	names := make([]string, 0, len(gf.Groups))
	for name := range gf.Groups {
		names = append(names, name)
	}
	return names
}

// Serve loads config, brings up every backend in backend-servers.json (not
// only those groupName references), composes groupName's virtual catalog, and serves it to the client over stdio
// until ctx is cancelled. This is what `mcp-proxy --serve <groupName>` runs.
func Serve(ctx context.Context, groupName string) error {
	bs, gf, err := LoadConfig()
	if err != nil {
		return err
	}

	if err := Validate(bs, gf); err != nil {
		return err
	}

	groupCfg, ok := gf.Groups[groupName]
	if !ok {
		return mcperr.ConfigInvalid("", fmt.Sprintf("unknown group %q", groupName), nil)
	}

	if cleanup, err := writePIDFile(); err != nil {
		logging.Warnf("could not record pid file, `reload` subcommand won't find this process: %v", err)
	} else {
		defer cleanup()
	}

	manager := backend.NewManager(bs.MCPServers, nil)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace*2)
		defer cancel()
		manager.Shutdown(shutdownCtx, shutdownGrace)
	}()

	catalogs, discoverErrs := manager.DiscoverAll(ctx)
	for name, derr := range discoverErrs {
		logging.Warnf("backend %s: discovery failed: %v", name, derr)
	}

	router := group.NewRouter(groupName, groupCfg, catalogs, manager)
	live := &liveRouter{}
	live.set(router)
	logCatalog(groupName, len(bs.MCPServers), router.Catalog())

	vs := mcpio.NewVirtualServer(serverName, serverVersion)
	registerCatalog(vs, live)

	stopReload := watchReload(ctx, groupName, manager, live)
	defer stopReload()

	return vs.ServeStdio(ctx)
}

func logCatalog(groupName string, backendCount int, cat model.Catalog) {
	logging.Infow("virtual catalog composed",
		"group", groupName,
		"backends", backendCount,
		"tools", len(cat.Tools),
		"resources", len(cat.Resources),
		"prompts", len(cat.Prompts),
	)
}

// writePIDFile records this process's PID at configstore.PIDPath so a later
// `mcp-proxy reload` invocation can find it. The returned cleanup removes the
// file; callers should defer it.
func writePIDFile() (func(), error) {
	path, err := configstore.PIDPath()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("write pid file: %w", err)
	}
	return func() { _ = os.Remove(path) }, nil
}

// TriggerReload signals a running `--serve` process to reload its config:
// the implementation behind the `reload` CLI subcommand.
func TriggerReload() error {
	path, err := configstore.PIDPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no running `--serve` process found (no pid file at %s)", path)
		}
		return fmt.Errorf("read pid file: %w", err)
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("pid file %s is corrupt: %w", path, err)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("signal process %d: %w", pid, err)
	}
	return nil
}

// liveRouter holds the group.Router currently serving requests behind an
// atomic pointer, so SIGHUP/`reload` can swap in a freshly composed catalog
// without tearing down the client's session.
type liveRouter struct {
	p atomic.Pointer[group.Router]
}

func (l *liveRouter) set(r *group.Router) { l.p.Store(r) }
func (l *liveRouter) get() *group.Router  { return l.p.Load() }

// watchReload installs a SIGHUP handler (mirroring cmd/vmcp/main.go's use of
// signal.NotifyContext for SIGINT/SIGTERM, but handled locally here since
// SIGHUP must reload rather than cancel ctx) that re-loads and re-validates
// config, reruns discovery against the already-running manager, and
// atomically swaps the live router. Because manager.EnsureStarted is
// idempotent, already-`ready` sessions are left untouched; discovery covers
// the backends the manager was built with at startup, so a backend added to
// backend-servers.json afterwards is not started. Tools/resources/prompts already advertised
// to the client keep routing correctly after the swap; brand new catalog
// entries are picked up by the manager immediately but the client will not
// see them in its tools/list until it reconnects, since this proxy does not
// send list-changed notifications on reload.
func watchReload(ctx context.Context, groupName string, manager *backend.Manager, live *liveRouter) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ctx.Done():
				close(done)
				return
			case <-sigCh:
				if err := reloadOnce(ctx, groupName, manager, live); err != nil {
					logging.Errorf("reload failed, continuing to serve the previous config: %v", err)
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		<-done
	}
}

// reloadOnce implements a single reload pass, run by the SIGHUP handler
// (which the `reload` CLI subcommand triggers).
func reloadOnce(ctx context.Context, groupName string, manager *backend.Manager, live *liveRouter) error {
	bs, gf, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := Validate(bs, gf); err != nil {
		return err
	}
	groupCfg, ok := gf.Groups[groupName]
	if !ok {
		return mcperr.ConfigInvalid("", fmt.Sprintf("unknown group %q", groupName), nil)
	}

	catalogs, discoverErrs := manager.DiscoverAll(ctx)
	for name, derr := range discoverErrs {
		logging.Warnf("backend %s: discovery failed during reload: %v", name, derr)
	}

	router := group.NewRouter(groupName, groupCfg, catalogs, manager)
	live.set(router)
	logCatalog(groupName, len(bs.MCPServers), router.Catalog())
	logging.Infof("reload complete for group %q", groupName)
	return nil
}

// registerCatalog registers every item in the initial catalog with handlers
// that dereference live at call time and delegate to whichever router is
// current, so a reload takes effect without re-registering the client's
// session.
func registerCatalog(vs *mcpio.VirtualServer, live *liveRouter) {
	cat := live.get().Catalog()

	for _, t := range cat.Tools {
		t := t
		vs.AddTool(mcpio.ToolToMCP(t), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			reqID := uuid.NewString()
			args, _ := req.Params.Arguments.(map[string]any)
			result, err := live.get().CallTool(ctx, t.Name, args)
			if err != nil {
				logging.Warnw("tool call failed", "request_id", reqID, "tool", t.Name, "error", err)
			}
			return result, err
		})
	}

	for _, res := range cat.Resources {
		res := res
		readHandler := func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			reqID := uuid.NewString()
			result, err := live.get().ReadResource(ctx, req.Params.URI)
			if err != nil {
				logging.Warnw("resource read failed", "request_id", reqID, "uri", req.Params.URI, "error", err)
				return nil, err
			}
			return result.Contents, nil
		}
		if mcpio.IsTemplateResource(res) {
			vs.AddResourceTemplate(mcpio.ResourceToMCPTemplate(res), readHandler)
			continue
		}
		vs.AddResource(mcpio.ResourceToMCP(res), readHandler)
	}

	for _, p := range cat.Prompts {
		p := p
		vs.AddPrompt(mcpio.PromptToMCP(p), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			reqID := uuid.NewString()
			result, err := live.get().GetPrompt(ctx, p.Name, req.Params.Arguments)
			if err != nil {
				logging.Warnw("get prompt failed", "request_id", reqID, "prompt", p.Name, "error", err)
			}
			return result, err
		})
	}
}
