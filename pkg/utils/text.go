package utils

// Truncate shortens s to at most maxLen bytes, appending an ellipsis when
// anything was cut. A maxLen <= 0 returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
