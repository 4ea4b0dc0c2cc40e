package utils

import (
	"strings"
	"unicode/utf8"
)

// DiscordMessageLimit is the maximum number of characters in a Discord message
const DiscordMessageLimit = 2000

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// TruncateDiscordMessage cuts content to the Discord message limit without splitting a rune,
// marking the cut with an ellipsis.
func TruncateDiscordMessage(content string) string {
	if utf8.RuneCountInString(content) <= DiscordMessageLimit {
		return content
	}

	runes := []rune(content)
	return string(runes[:DiscordMessageLimit-1]) + "…"
}

var discordMarkdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"|", `\|`,
	">", `\>`,
)

// EscapeDiscordMarkdown neutralises markdown in text that came from an untrusted source, such as
// a Minecraft server's message of the day.
func EscapeDiscordMarkdown(text string) string {
	return discordMarkdownEscaper.Replace(text)
}
