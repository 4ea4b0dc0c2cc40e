package handlers

import (
	"github.com/bwmarrin/discordgo"

	"mcpanel/usecases/bot"
)

// ApplicationCommands is the global slash-command set. It is overwritten as a whole on every
// registration so removed commands disappear from Discord too.
func ApplicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: bot.CommandPanel, Description: "Manage this server's Minecraft settings on the dashboard"},
		{Name: bot.CommandHelp, Description: "Show information about the bot"},
		{Name: bot.CommandStatus, Description: "Show whether this server's Minecraft server is online"},
		{Name: bot.CommandServer, Description: "Show this server's Minecraft server address"},
	}
}

// RegisterApplicationCommands overwrites the global slash commands of the application
func RegisterApplicationCommands(session *discordgo.Session, applicationID string) ([]*discordgo.ApplicationCommand, error) {
	return session.ApplicationCommandBulkOverwrite(applicationID, "", ApplicationCommands())
}
