// Package config loads vibemcp's startup configuration from environment
// variables, with CLI flag overrides layered on top the way the teacher
// repo's config package does.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is vibemcp's complete startup configuration (spec §4.J).
type Config struct {
	// WorkspaceRoot is the directory containing one subdirectory per project.
	WorkspaceRoot string
	// Port is the port the external protocol layer listens on.
	Port int
	// DBPath is the index database file path.
	DBPath string
	// AuthToken is the bearer token inbound requests must present. Empty
	// means no authentication is enforced.
	AuthToken string
	// ReadOnly disables all write-engine operations and event emission.
	ReadOnly bool
	// WebhooksEnabled gates the webhook engine's fire_event no-op switch.
	WebhooksEnabled bool
	// SyncInterval is the background syncer's interval in seconds. 0 disables it.
	SyncInterval int

	// Advanced is optional tuning loaded from a sidecar YAML file (§ SPEC_FULL
	// AMBIENT STACK / Configuration). Zero value means "use spec defaults".
	Advanced Advanced
}

// ReadOnlyOverride lets a CLI flag force read-only mode on, taking
// precedence over VIBE_READ_ONLY per spec §4.J.
type ReadOnlyOverride struct {
	Set   bool
	Value bool
}

// FromEnv loads configuration from environment variables. readOnly, when
// Set, overrides VIBE_READ_ONLY (CLI flag wins over env per spec).
func FromEnv(readOnly ReadOnlyOverride) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	defaultRoot := filepath.Join(home, ".vibe")

	root := expandTilde(getEnvOr("VIBE_ROOT", defaultRoot))

	portStr := getEnvOr("VIBE_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid VIBE_PORT value %q: must be an integer in 1..65535", portStr)
	}

	defaultDB := filepath.Join(root, "index.db")
	dbPath := expandTilde(getEnvOr("VIBE_DB", defaultDB))

	token := os.Getenv("VIBE_AUTH_TOKEN")
	if token != "" && len(token) < 32 {
		return nil, fmt.Errorf("VIBE_AUTH_TOKEN must be at least 32 characters")
	}

	var ro bool
	if readOnly.Set {
		ro = readOnly.Value
	} else {
		ro = truthy(os.Getenv("VIBE_READ_ONLY"))
	}

	webhooksEnabled := !falsy(getEnvOr("VIBE_WEBHOOKS_ENABLED", "true"))

	syncStr := getEnvOr("VIBE_SYNC_INTERVAL", "30")
	syncInterval, err := strconv.Atoi(syncStr)
	if err != nil || syncInterval < 0 {
		return nil, fmt.Errorf("invalid VIBE_SYNC_INTERVAL value %q: must be an integer >= 0", syncStr)
	}

	advanced, err := loadAdvanced(root)
	if err != nil {
		return nil, err
	}

	return &Config{
		WorkspaceRoot:   root,
		Port:            port,
		DBPath:          dbPath,
		AuthToken:       token,
		ReadOnly:        ro,
		WebhooksEnabled: webhooksEnabled,
		SyncInterval:    syncInterval,
		Advanced:        advanced,
	}, nil
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func falsy(v string) bool {
	switch strings.ToLower(v) {
	case "0", "false", "no":
		return true
	default:
		return false
	}
}

func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
