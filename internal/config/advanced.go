package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Advanced carries rarely-changed tuning that has no environment variable
// in spec §4.J: per-folder ranking boosts and the webhook delivery pool
// size. Loaded from <root>/.vibe.yaml if present; its absence changes
// nothing from the spec's built-in defaults.
type Advanced struct {
	// FolderBoosts is parsed from folder_boosts, keyed by folder name. Search
	// ranking does not read it: the type-boost table in internal/store is fixed.
	FolderBoosts map[string]float64 `yaml:"folder_boosts"`
	// WebhookWorkers overrides the spec's fixed pool size of 10 when > 0.
	WebhookWorkers int `yaml:"webhook_workers"`
}

func loadAdvanced(root string) (Advanced, error) {
	path := filepath.Join(root, ".vibe.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Advanced{}, nil
		}
		return Advanced{}, err
	}

	var adv Advanced
	if err := yaml.Unmarshal(data, &adv); err != nil {
		return Advanced{}, err
	}
	return adv, nil
}
