package models

// BuildModel identifies the running binary.
type BuildModel struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	CommitShort string `json:"commitShort"`
	Branch      string `json:"branch"`
	Dirty       bool   `json:"dirty"`
	BuildTime   string `json:"buildTime,omitempty"`
	CommitTime  string `json:"commitTime,omitempty"`
	BuildHost   string `json:"buildHost,omitempty"`
}

// ConfigModel describes the running service and the network it plans over.
type ConfigModel struct {
	Build              BuildModel `json:"build"`
	Id                 string     `json:"id"`
	Name               string     `json:"name"`
	NetworkName        string     `json:"networkName"`
	TimeZone           string     `json:"timeZone"`
	InterchangeMinutes int        `json:"interchangeMinutes"`
	TicketTypes        []string   `json:"ticketTypes"`
	LineCount          int        `json:"lineCount"`
	StationCount       int        `json:"stationCount"`
}
