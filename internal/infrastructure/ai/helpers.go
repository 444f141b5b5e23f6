package ai

import "os"

func resolveAuth(primary string, fallback string) string {
	if primary != "" {
		if value := os.Getenv(primary); value != "" {
			return value
		}
	}
	if fallback == "" {
		return ""
	}
	return os.Getenv(fallback)
}
