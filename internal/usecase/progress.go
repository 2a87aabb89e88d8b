package usecase

import "fmt"

// FormatProgress renders a human-readable status line and the percentage for
// a progress bar. total = 0 is defined as "no progress" rather than a
// division by zero.
func FormatProgress(current, total int, symbol string) (string, float64) {
	if total <= 0 {
		return "No scan in progress", 0
	}
	percent := float64(current) / float64(total) * 100
	if symbol == "" {
		return fmt.Sprintf("Processed %d/%d (%.1f%%)", current, total, percent), percent
	}
	return fmt.Sprintf("Processing %d/%d: %s (%.1f%%)", current, total, symbol, percent), percent
}
