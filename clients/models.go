package clients

// JavaStatus is the subset of the status-query service response the dashboard renders
type JavaStatus struct {
	Online  bool               `json:"online"`
	Host    string             `json:"host"`
	Port    int                `json:"port"`
	Version *JavaStatusVersion `json:"version"`
	Players *JavaStatusPlayers `json:"players"`
	MOTD    *JavaStatusMOTD    `json:"motd"`
	Icon    *string            `json:"icon"`
}

type JavaStatusVersion struct {
	NameRaw   string `json:"name_raw"`
	NameClean string `json:"name_clean"`
	Protocol  int64  `json:"protocol"`
}

type JavaStatusPlayers struct {
	Online int64 `json:"online"`
	Max    int64 `json:"max"`
}

type JavaStatusMOTD struct {
	Raw   string `json:"raw"`
	Clean string `json:"clean"`
	HTML  string `json:"html"`
}
