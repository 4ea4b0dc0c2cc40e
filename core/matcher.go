package core

import (
	"github.com/samber/mo"

	"mcpanel/models"
)

// MatchCommand returns the response of the first command whose trigger equals message.
// Comparison is exact: no trimming, no case folding, no prefix matching. Duplicate triggers
// are allowed and the earliest one in insertion order wins.
func MatchCommand(commands []models.CustomCommand, message string) mo.Option[string] {
	for _, cmd := range commands {
		if cmd.Trigger == message {
			return mo.Some(cmd.Response)
		}
	}
	return mo.None[string]()
}
