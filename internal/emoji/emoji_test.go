package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	SetEmojiDisabled(false)
	if got := GetEmoji("success"); got != "✅" {
		t.Errorf("GetEmoji(success) = %q, want ✅", got)
	}

	SetEmojiDisabled(true)
	if got := GetEmoji("success"); got != "[OK]" {
		t.Errorf("GetEmoji(success) with emoji disabled = %q, want [OK]", got)
	}
	if got := Prefix("big_win"); got != "[WIN] " {
		t.Errorf("Prefix(big_win) = %q, want %q", got, "[WIN] ")
	}

	if got := GetEmoji("nope"); got != "[?]" {
		t.Errorf("GetEmoji(nope) = %q, want [?]", got)
	}
}
