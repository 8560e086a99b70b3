// Package configstore loads, validates, and migrates the proxy's two
// on-disk config files: backend-servers.json and groups.json.
package configstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appName                = "mcp-proxy"
	backendServersFileName = "backend-servers.json"
	groupsFileName         = "groups.json"
	pidFileName            = "serve.pid"

	// legacyConfigDir is the pre-XDG project-relative location this proxy
	// used to read from; still migrated once on startup.
	legacyConfigDir = "config"
)

// UserConfigPath resolves the XDG-correct path for a proxy config file,
// mirroring cmd/thv/app/logs.go's xdg.DataFile usage but for the config
// directory.
func UserConfigPath(fileName string) (string, error) {
	p, err := xdg.ConfigFile(filepath.Join(appName, fileName))
	if err != nil {
		return "", fmt.Errorf("resolve config path for %s: %w", fileName, err)
	}
	return p, nil
}

// BackendServersPath returns the user config directory's backend-servers.json path.
func BackendServersPath() (string, error) { return UserConfigPath(backendServersFileName) }

// GroupsPath returns the user config directory's groups.json path.
func GroupsPath() (string, error) { return UserConfigPath(groupsFileName) }

// PIDPath returns the XDG runtime-directory path a running `--serve` process
// records its PID to, so the `reload` subcommand can find it to send SIGHUP.
func PIDPath() (string, error) {
	p, err := xdg.RuntimeFile(filepath.Join(appName, pidFileName))
	if err != nil {
		return "", fmt.Errorf("resolve pid file path: %w", err)
	}
	return p, nil
}

func legacyPath(fileName string) string {
	return filepath.Join(legacyConfigDir, fileName)
}

// fileExists reports whether path names a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
