package configstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/hughescr/mcp-proxy-processor/internal/logging"
)

// lockTimeout bounds how long MigrateLegacyConfig waits for the migration
// lock before giving up, so a stuck lock never hangs startup indefinitely.
const lockTimeout = 5 * time.Second

// MigrateLegacyConfig copies a file from the legacy ./config/ directory into
// the XDG user config directory, once, if the legacy file exists and the
// destination does not. An existing destination file is never overwritten,
// so hand edits to the migrated copy survive later restarts. A gofrs/flock
// advisory lock on the destination guards against two proxy instances
// racing the same migration on startup.
func MigrateLegacyConfig(fileName string) error {
	dest, err := UserConfigPath(fileName)
	if err != nil {
		return err
	}

	if fileExists(dest) {
		return nil
	}

	src := legacyPath(fileName)
	if !fileExists(src) {
		return nil
	}

	lockPath := dest + ".lock"
	fl := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock %s for migration: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring migration lock for %s", fileName)
	}
	defer fl.Unlock() //nolint:errcheck

	// Re-check after acquiring the lock: another process may have migrated
	// while we waited.
	if fileExists(dest) {
		return nil
	}

	if err := copyFile(src, dest); err != nil {
		return fmt.Errorf("migrate legacy config %s: %w", fileName, err)
	}
	logging.Infof("migrated legacy config %s -> %s", src, dest)
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dest) //nolint:errcheck
		return err
	}
	return nil
}
