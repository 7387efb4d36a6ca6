package emoji

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"loading":    {"📁", "[LOAD]"},
	"statistics": {"📊", "[STATS]"},
	"rotation":   {"📊", "[ROT]"},
	"big_win":    {"🎰", "[WIN]"},
	"reels":      {"🎲", "[REEL]"},
	"area":       {"🧭", "[AREA]"},
	"robot":      {"🤖", "[AI]"},
	"database":   {"⚡", "[DB]"},
	"target":     {"🎯", "[>]"},
	"clipboard":  {"📋", "[COPY]"},
	"sparkles":   {"✨", "[*]"},
	"help":       {"❓", "[?]"},
	"door":       {"🚪", "[EXIT]"},
	"number":     {"🔢", "[#]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// Prefix returns the emoji for key followed by a space
func Prefix(key string) string {
	return GetEmoji(key) + " "
}
