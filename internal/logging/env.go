package logging

import "os"

// EnvReader abstracts environment variable lookups so tests can stub the
// ADMIN_MODE check without mutating process-global state.
type EnvReader interface {
	Getenv(key string) string
}

// OSReader reads environment variables from the process environment.
type OSReader struct{}

// Getenv implements EnvReader.
func (OSReader) Getenv(key string) string {
	return os.Getenv(key)
}
