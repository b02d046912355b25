package netconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a network configuration document. The returned
// config is treated as immutable by every downstream consumer.
func Load(path string) (*NetworkConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network config %s: %w", path, err)
	}

	return Parse(raw)
}

// Parse decodes and validates a network configuration document from memory.
func Parse(raw []byte) (*NetworkConfig, error) {
	var cfg NetworkConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode network config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
