package minecraft

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"mcpanel/clients"
	"mcpanel/config"
	"mcpanel/models"
)

const maxAddressLength = 255

// StatusProber runs one bounded status query per call. Nothing is pooled or cached between calls.
type StatusProber struct {
	statusClient clients.MinecraftStatusClient
	timeout      time.Duration
}

func NewStatusProber(statusClient clients.MinecraftStatusClient, timeout time.Duration) *StatusProber {
	return &StatusProber{
		statusClient: statusClient,
		timeout:      config.ClampProbeTimeout(timeout),
	}
}

// Timeout is the effective bound applied to every probe
func (p *StatusProber) Timeout() time.Duration {
	return p.timeout
}

// Probe queries the server at address (host or host:port). Any failure, including an invalid
// address or the timeout expiring, yields an offline snapshot instead of an error.
func (p *StatusProber) Probe(ctx context.Context, address string) models.StatusSnapshot {
	address = strings.TrimSpace(address)
	if err := ValidateAddress(address); err != nil {
		log.Printf("⚠️ Rejected Minecraft address %q: %v", address, err)
		return models.OfflineSnapshot()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	status, err := p.statusClient.FetchJavaStatus(ctx, address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("⚠️ Minecraft status probe for %s timed out after %s", address, p.timeout)
		} else {
			log.Printf("⚠️ Minecraft status probe for %s failed: %v", address, err)
		}
		return models.OfflineSnapshot()
	}

	snapshot := snapshotFromStatus(status)
	log.Printf("✅ Probed Minecraft server %s in %s (online: %t)", address, time.Since(start).Round(time.Millisecond), snapshot.Online)
	return snapshot
}

// ValidateAddress checks that address is a non-empty host with an optional port in 1-65535
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if len(address) > maxAddressLength {
		return fmt.Errorf("address cannot be longer than %d characters", maxAddressLength)
	}
	if strings.ContainsAny(address, " \t\r\n/?#") {
		return fmt.Errorf("address contains invalid characters")
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		var addrErr *net.AddrError
		if errors.As(err, &addrErr) && addrErr.Err == "missing port in address" {
			return nil
		}
		return fmt.Errorf("invalid address: %w", err)
	}
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

func snapshotFromStatus(status *clients.JavaStatus) models.StatusSnapshot {
	if status == nil || !status.Online {
		return models.OfflineSnapshot()
	}

	snapshot := models.StatusSnapshot{Online: true}
	if status.Players != nil {
		snapshot.PlayerCount = status.Players.Online
		snapshot.MaxPlayers = status.Players.Max
	}
	if status.Version != nil {
		snapshot.VersionName = status.Version.NameClean
	}
	if status.MOTD != nil {
		snapshot.MOTD = status.MOTD.Clean
	}
	if status.Icon != nil {
		snapshot.FaviconRef = *status.Icon
	}
	return snapshot
}
