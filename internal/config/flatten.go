// internal/config/flatten.go
package config

import (
	"strings"
)

// secretKeys lists the flattened keys whose values are masked in output.
var secretKeys = map[string]bool{
	"openai.api_key": true,
}

// IsSecretKey reports whether a dot-separated key holds a secret.
func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// Flatten collapses a nested map into dot-separated keys, so
// {"openai": {"api_key": "sk-x"}} becomes {"openai.api_key": "sk-x"}.
func Flatten(m map[string]any) map[string]any {
	flat := make(map[string]any)
	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, v := range node {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if child, ok := v.(map[string]any); ok {
				walk(key, child)
				continue
			}
			flat[key] = v
		}
	}
	walk("", m)
	return flat
}

// Unflatten rebuilds the nested form from dot-separated keys.
func Unflatten(flat map[string]any) map[string]any {
	nested := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		node := nested
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	return nested
}

// MaskSecrets copies a flat map, replacing each secret value with
// "***" plus its last 4 characters. Empty secrets stay empty.
func MaskSecrets(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		if secretKeys[k] {
			if s, ok := v.(string); ok && s != "" {
				v = maskValue(s)
			}
		}
		out[k] = v
	}
	return out
}

func maskValue(s string) string {
	tail := s
	if len(s) > 4 {
		tail = s[len(s)-4:]
	}
	return "***" + tail
}
