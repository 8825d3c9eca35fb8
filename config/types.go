package config

import "time"

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           int `yaml:"port" validate:"gt=0,lte=65535"`
	ReadTimeoutMS  int `yaml:"readTimeoutMS" validate:"gte=0"`
	WriteTimeoutMS int `yaml:"writeTimeoutMS" validate:"gte=0"`
}

// DataConfig locates the fare table. Source and UpdatesSource are local
// paths, http(s) URLs or, for Source only, a postgres:// DSN.
type DataConfig struct {
	Source        string `yaml:"source" validate:"required"`
	UpdatesSource string `yaml:"updatesSource"`
	CachePath     string `yaml:"cachePath"`
	// GTFSStops is an optional static GTFS zip or stops.txt supplying stop
	// positions. Entries under stops take precedence.
	GTFSStops string `yaml:"gtfsStops"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// Timeout returns the fetch timeout.
func (d DataConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

// RedisConfig enables the Redis selection store when Addr is set
type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
	TTLHours int    `yaml:"ttlHours" validate:"gte=0"`
}

// TTL returns how long a saved selection is kept.
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLHours) * time.Hour
}

// AlertsConfig contains the GTFS-Realtime service alerts feed
type AlertsConfig struct {
	FeedURL           string `yaml:"feedURL"`
	RefreshIntervalMS int    `yaml:"refreshIntervalMS" validate:"gte=0"`
}

// RefreshInterval returns the alert refresh period.
func (a AlertsConfig) RefreshInterval() time.Duration {
	return time.Duration(a.RefreshIntervalMS) * time.Millisecond
}

// LineConfig attaches metadata to a fare line by name
type LineConfig struct {
	Name          string   `yaml:"name" validate:"required"`
	RouteIDs      []string `yaml:"routeIDs"`
	PriorityStops []string `yaml:"priorityStops"`
	Termini       []string `yaml:"termini" validate:"omitempty,len=2"`
}

// StopConfig is the position of a stop
type StopConfig struct {
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `yaml:"lng" validate:"gte=-180,lte=180"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Redis  RedisConfig  `yaml:"redis"`
	Alerts AlertsConfig `yaml:"alerts"`
	Lines  []LineConfig `yaml:"lines" validate:"dive"`
	Stops  []StopConfig `yaml:"stops" validate:"dive"`
}
