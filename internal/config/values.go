// internal/config/values.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ListValues returns the config's flattened key/value pairs. With mask
// set, secret values are shown masked.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue loads the config and returns the value for a dot-separated
// key, masked when the key is a secret.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	values, err := ListValues(cfg, true)
	if err != nil {
		return nil, err
	}
	val, ok := values[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue updates one key in the config file. Environment overrides
// are deliberately not consulted; only the file contents change.
func SetValue(path, key, value string) error {
	cfg := &Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	flat := Flatten(m)
	if _, ok := flat[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	flat[key] = value

	merged, err := json.Marshal(Unflatten(flat))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	out := &Config{}
	if err := json.Unmarshal(merged, out); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return Save(path, out)
}
