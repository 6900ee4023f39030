package config

import "strings"

// GetAuthSkipperPaths lists routes the /api auth middleware lets through.
func GetAuthSkipperPaths() []string {
	raw := GetEnv("AUTH_SKIP_PATHS", "/health")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
