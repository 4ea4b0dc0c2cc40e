package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"mcpanel/clients/mcstatus"
	"mcpanel/config"
	"mcpanel/models/api"
	"mcpanel/services/minecraft"
)

type Options struct {
	Timeout    time.Duration `long:"timeout" description:"Probe timeout, capped at 5s" default:"5s"`
	APIURL     string        `long:"api-url" env:"MC_STATUS_API_URL" description:"Status-query service base URL" default:"https://api.mcstatus.io/v2/status/java"`
	Positional struct {
		Address string `positional-arg-name:"address" description:"host or host:port of a Java edition server"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
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

	statusClient := mcstatus.NewStatusClient(&http.Client{}, opts.APIURL)
	prober := minecraft.NewStatusProber(statusClient, config.ClampProbeTimeout(opts.Timeout))

	log.Printf("🎮 Probing %s (timeout %s)", opts.Positional.Address, prober.Timeout())
	snapshot := prober.Probe(context.Background(), opts.Positional.Address)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(api.DomainStatusSnapshotToAPIStatusSnapshot(snapshot)); err != nil {
		log.Fatalf("❌ Failed to encode snapshot: %v", err)
	}
}
