package config

import (
	"errors"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tplfvg/tariffe/stops"
)

// Config is the global application configuration
var Config AppConfig

const (
	defaultPort              = 8080
	defaultTimeoutMS         = 10000
	defaultTTLHours          = 720
	defaultRefreshIntervalMS = 60000
)

// LoadAppConfig loads and validates the application configuration. The
// first readable path wins; with no paths config.yml is tried.
func LoadAppConfig(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"config.yml"}
	}
	var data []byte
	err := errors.New("config: no path given")
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	cfg, err := Load(data)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Load parses and validates YAML configuration and fills defaults.
func Load(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	applyDefaults(&cfg)
	if err := validator.New().Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Data.TimeoutMS == 0 {
		cfg.Data.TimeoutMS = defaultTimeoutMS
	}
	if cfg.Redis.TTLHours == 0 {
		cfg.Redis.TTLHours = defaultTTLHours
	}
	if cfg.Alerts.RefreshIntervalMS == 0 {
		cfg.Alerts.RefreshIntervalMS = defaultRefreshIntervalMS
	}
}

// SelectLine returns the metadata configured for a fare line name.
func (c AppConfig) SelectLine(name string) (LineConfig, bool) {
	for _, l := range c.Lines {
		if l.Name == name {
			return l, true
		}
	}
	return LineConfig{}, false
}

// SelectLine looks name up in the global configuration.
func SelectLine(name string) (LineConfig, bool) {
	return Config.SelectLine(name)
}

// Coordinates returns the configured stop positions by name.
func (c AppConfig) Coordinates() stops.Coordinates {
	out := make(stops.Coordinates, len(c.Stops))
	for _, s := range c.Stops {
		out[s.Name] = stops.Point{Lat: s.Lat, Lng: s.Lng}
	}
	return out
}

// TerminiPair returns the two termini of a line, ok false when not configured.
func (l LineConfig) TerminiPair() ([2]string, bool) {
	if len(l.Termini) != 2 {
		return [2]string{}, false
	}
	return [2]string{l.Termini[0], l.Termini[1]}, true
}
