package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into chunks of at most maxLen runes,
// preferring newline boundaries in the second half of a chunk.
func SplitMessage(text string, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(runes) > maxLen {
		chunk := string(runes[:maxLen])
		splitAt := maxLen
		if idx := strings.LastIndex(chunk, "\n"); idx >= 0 {
			// LastIndex reports a byte offset; convert back to runes
			// before slicing.
			if at := utf8.RuneCountInString(chunk[:idx]) + 1; at > maxLen/2 {
				splitAt = at
			}
		}
		parts = append(parts, string(runes[:splitAt]))
		runes = runes[splitAt:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// CloseDanglingCode closes an unterminated code block so Telegram's
// markdown parser does not reject the message.
func CloseDanglingCode(text string) string {
	if strings.Count(text, "```")%2 != 0 {
		text += "\n```"
	}
	return text
}
