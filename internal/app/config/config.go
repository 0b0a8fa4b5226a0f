package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ghalamif/EcoGuard/internal/domain"
)

type Config struct {
	Stream     StreamConfig      `yaml:"stream"`
	Map        MapConfig         `yaml:"map"`
	Facilities []domain.Facility `yaml:"facilities"`
	Selected   string            `yaml:"selected"`
	HTTP       HTTPConfig        `yaml:"http"`
	Log        LogConfig         `yaml:"log"`
}

type StreamConfig struct {
	Interval time.Duration    `yaml:"interval"`
	Capacity int              `yaml:"capacity"`
	Seed     uint64           `yaml:"seed"`
	Channels []domain.Channel `yaml:"channels"`
}

type MapConfig struct {
	Host       string        `yaml:"host"`
	Center     domain.LatLng `yaml:"center"`
	Zoom       int           `yaml:"zoom"`
	TileURL    string        `yaml:"tile_url"`
	MaxZoom    int           `yaml:"max_zoom"`
	Subdomains string        `yaml:"subdomains"`
}

// TileLayer returns the configured background layer.
func (m MapConfig) TileLayer() domain.TileLayer {
	return domain.TileLayer{URL: m.TileURL, MaxZoom: m.MaxZoom, Subdomains: m.Subdomains}
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig enables a rotated log file next to stderr output.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is the Chennai dashboard with every default applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

func (c *Config) ApplyDefaults() {
	if c.Stream.Interval == 0 {
		c.Stream.Interval = 3 * time.Second
	}
	if c.Stream.Capacity == 0 {
		c.Stream.Capacity = 15
	}
	if len(c.Stream.Channels) == 0 {
		c.Stream.Channels = domain.DefaultChannels()
	}
	if c.Map.Host == "" {
		c.Map.Host = "map"
	}
	if c.Map.Center == (domain.LatLng{}) {
		c.Map.Center = domain.LatLng{Lat: 13.0827, Lng: 80.2707}
	}
	if c.Map.Zoom == 0 {
		c.Map.Zoom = 11
	}
	if c.Map.TileURL == "" {
		c.Map.TileURL = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"
	}
	if c.Map.MaxZoom == 0 {
		c.Map.MaxZoom = 19
	}
	if c.Map.Subdomains == "" {
		c.Map.Subdomains = "abcd"
	}
	if len(c.Facilities) == 0 {
		c.Facilities = ChennaiFacilities()
	}
	if c.Selected == "" && len(c.Facilities) > 0 {
		c.Selected = c.Facilities[0].ID
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.File != "" {
		if c.Log.MaxSizeMB == 0 {
			c.Log.MaxSizeMB = 10
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = 3
		}
		if c.Log.MaxAgeDays == 0 {
			c.Log.MaxAgeDays = 7
		}
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Stream.Interval <= 0 {
		errs = append(errs, fmt.Errorf("stream.interval must be > 0"))
	}
	if c.Stream.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("stream.capacity must be > 0"))
	}
	names := make(map[string]struct{}, len(c.Stream.Channels))
	for i, ch := range c.Stream.Channels {
		if ch.Name == "" {
			errs = append(errs, fmt.Errorf("stream.channels[%d]: name is required", i))
			continue
		}
		if _, dup := names[ch.Name]; dup {
			errs = append(errs, fmt.Errorf("stream.channels[%d]: duplicate channel %q", i, ch.Name))
		}
		names[ch.Name] = struct{}{}
		if ch.Min >= ch.Max {
			errs = append(errs, fmt.Errorf("stream.channels[%d]: %s min %v must be below max %v", i, ch.Name, ch.Min, ch.Max))
		}
	}

	if c.Map.Host == "" {
		errs = append(errs, fmt.Errorf("map.host is required"))
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > c.Map.MaxZoom {
		errs = append(errs, fmt.Errorf("map.zoom %d outside [0,%d]", c.Map.Zoom, c.Map.MaxZoom))
	}

	ids := make(map[string]struct{}, len(c.Facilities))
	for i, f := range c.Facilities {
		if f.ID == "" {
			errs = append(errs, fmt.Errorf("facilities[%d]: id is required", i))
			continue
		}
		if _, dup := ids[f.ID]; dup {
			errs = append(errs, fmt.Errorf("facilities[%d]: duplicate id %q", i, f.ID))
		}
		ids[f.ID] = struct{}{}
	}
	if c.Selected != "" {
		if _, ok := ids[c.Selected]; !ok {
			errs = append(errs, fmt.Errorf("selected %q is not a configured facility", c.Selected))
		}
	}

	if c.HTTP.Addr == "" {
		errs = append(errs, fmt.Errorf("http.addr is required"))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("log rotation limits must be >= 0"))
	}
	return errors.Join(errs...)
}
