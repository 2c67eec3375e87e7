// Package config loads the storelocator YAML config with local/dev/prod
// profiles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/storelocator/internal/geo"
)

type Root struct {
	Env   string `yaml:"env"`
	Local Config `yaml:"local"`
	Dev   Config `yaml:"dev"`
	Prod  Config `yaml:"prod"`
}

type Config struct {
	Env string `yaml:"-"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text|json
		File   string `yaml:"file"`
	} `yaml:"log"`

	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Retries        int    `yaml:"retries"`
		Concurrency    int    `yaml:"concurrency"`
	} `yaml:"api"`

	Map struct {
		Center    geo.Point `yaml:"center"`
		Zoom      int       `yaml:"zoom"`
		FocusZoom int       `yaml:"focus_zoom"`
	} `yaml:"map"`

	Location struct {
		Mode      string  `yaml:"mode"` // fixed|denied|none
		Latitude  float64 `yaml:"latitude"`
		Longitude float64 `yaml:"longitude"`
	} `yaml:"location"`

	Search struct {
		DebounceMS int `yaml:"debounce_ms"`
	} `yaml:"search"`

	UI struct {
		Theme string `yaml:"theme"`
	} `yaml:"ui"`

	Session struct {
		Path string `yaml:"path"`
	} `yaml:"session"`
}

// Defaults for the Liberties area.
var (
	DefaultCenter   = geo.Point{Lat: 53.3415, Long: -6.2777}
	DefaultPosition = geo.Point{Lat: 53.34296378813723, Long: -6.280536890952785}
)

const (
	DefaultBaseURL = "https://rest-liberties-shops.libertiesshops.workers.dev"
	DefaultZoom    = 15
	FocusZoom      = 18
)

// DefaultPath is ~/.storelocator/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".storelocator", "config.yaml")
}

// Load reads path and selects the profile named by env. A missing file
// yields the defaults for the local profile.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		p := &Config{Env: "local"}
		applyDefaults(p)
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a config document.
func Parse(b []byte) (*Config, error) {
	var root Root
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	env := strings.TrimSpace(strings.ToLower(root.Env))
	if env == "" {
		env = "local"
	}

	var p Config
	switch env {
	case "local":
		p = root.Local
	case "dev":
		p = root.Dev
	case "prod":
		p = root.Prod
	default:
		return nil, fmt.Errorf("unknown env=%q (expected local|dev|prod)", env)
	}
	p.Env = env

	applyDefaults(&p)
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Position is the configured fixed user position.
func (c *Config) Position() geo.Point {
	return geo.Point{Lat: c.Location.Latitude, Long: c.Location.Longitude}
}

func (c *Config) validate() error {
	switch c.Location.Mode {
	case "fixed", "denied", "none":
	default:
		return fmt.Errorf("location.mode=%q (expected fixed|denied|none)", c.Location.Mode)
	}
	if !c.Map.Center.Valid() {
		return fmt.Errorf("map.center %s is out of range", c.Map.Center)
	}
	if c.Location.Mode == "fixed" && !c.Position().Valid() {
		return fmt.Errorf("location %s is out of range", c.Position())
	}
	return nil
}

func applyDefaults(p *Config) {
	if p.API.BaseURL == "" {
		p.API.BaseURL = DefaultBaseURL
	}
	if p.API.TimeoutSeconds <= 0 {
		p.API.TimeoutSeconds = 15
	}
	if p.API.Retries < 0 {
		p.API.Retries = 0
	}
	if p.API.Concurrency <= 0 {
		p.API.Concurrency = 4
	}

	if p.Map.Center == (geo.Point{}) {
		p.Map.Center = DefaultCenter
	}
	if p.Map.Zoom <= 0 {
		p.Map.Zoom = DefaultZoom
	}
	if p.Map.FocusZoom <= 0 {
		p.Map.FocusZoom = FocusZoom
	}

	p.Location.Mode = strings.ToLower(strings.TrimSpace(p.Location.Mode))
	if p.Location.Mode == "" {
		p.Location.Mode = "fixed"
	}
	if p.Location.Latitude == 0 && p.Location.Longitude == 0 {
		p.Location.Latitude = DefaultPosition.Lat
		p.Location.Longitude = DefaultPosition.Long
	}

	if p.Search.DebounceMS <= 0 {
		p.Search.DebounceMS = 300
	}

	if p.UI.Theme == "" {
		p.UI.Theme = "classic"
	}

	if p.Session.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			p.Session.Path = filepath.Join(home, ".storelocator", "session.json")
		} else {
			p.Session.Path = "session.json"
		}
	}

	if p.Log.Level == "" {
		if p.Env == "prod" {
			p.Log.Level = "info"
		} else {
			p.Log.Level = "debug"
		}
	}
	if p.Log.Format == "" {
		if p.Env == "prod" {
			p.Log.Format = "json"
		} else {
			p.Log.Format = "text"
		}
	}
	if p.Log.File == "" {
		p.Log.File = filepath.Join(os.TempDir(), "storelocator.log")
	}
}
