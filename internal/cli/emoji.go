package cli

import (
	"github.com/yildizm/Koryaku/internal/emoji"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// existsMark labels a path as found or missing
func existsMark(exists bool) string {
	if exists {
		return " " + GetEmoji("success") + " (exists)"
	}
	return " " + GetEmoji("error") + " (not found)"
}
