package models

// StatusSnapshot is a point-in-time read of a Minecraft server. It is never persisted.
type StatusSnapshot struct {
	Online      bool
	PlayerCount int64
	MaxPlayers  int64
	VersionName string
	MOTD        string
	FaviconRef  string
}

// OfflineSnapshot is returned for every probe failure
func OfflineSnapshot() StatusSnapshot {
	return StatusSnapshot{Online: false}
}
