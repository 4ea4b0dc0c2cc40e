package main

import (
	"fmt"
	"log"

	"mcpanel/core"
)

func main() {
	log.Printf("🔑 Generating new session signing secret...")

	secret, err := core.NewSecretKey("ses")
	if err != nil {
		log.Fatalf("❌ Failed to generate session secret: %v", err)
	}

	fmt.Printf("SESSION_SECRET=%s\n", secret)
	log.Printf("✅ Successfully generated session signing secret")
}
