package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"mcpanel/handlers"
)

type Options struct {
	BotToken      string `long:"token" env:"DISCORD_BOT_TOKEN" description:"Bot token used to authenticate with Discord" required:"true"`
	ApplicationID string `long:"application-id" env:"DISCORD_CLIENT_ID" description:"Application ID; defaults to the bot user's ID"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Could not load .env file, continuing with system env vars")
	}

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session, err := discordgo.New("Bot " + opts.BotToken)
	if err != nil {
		log.Fatalf("❌ Failed to create Discord session: %v", err)
	}

	applicationID := opts.ApplicationID
	if applicationID == "" {
		botUser, err := session.User("@me")
		if err != nil {
			log.Fatalf("❌ Failed to resolve bot user: %v", err)
		}
		applicationID = botUser.ID
	}

	log.Printf("🔄 Overwriting global slash commands for application %s", applicationID)
	commands, err := handlers.RegisterApplicationCommands(session, applicationID)
	if err != nil {
		log.Fatalf("❌ Failed to register slash commands: %v", err)
	}

	for _, cmd := range commands {
		log.Printf("✅ /%s registered (%s)", cmd.Name, cmd.ID)
	}
}
