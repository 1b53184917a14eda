package config

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"go.yaml.in/yaml/v3"

	"github.com/willie68/go_tilefetch/internal/logging"
	"github.com/willie68/go_tilefetch/internal/mercator"
)

// BoundingBox is the requested region in degrees, or alternatively the
// name of a preset fixture.
type BoundingBox struct {
	North   float64 `yaml:"north"`
	East    float64 `yaml:"east"`
	South   float64 `yaml:"south"`
	West    float64 `yaml:"west"`
	Fixture string  `yaml:"fixture"`
}

// Zoom is the inclusive zoom level range to fetch.
type Zoom struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Serve configures the optional local tile server.
type Serve struct {
	Active bool `yaml:"active"`
	Port   int  `yaml:"port"`
}

// Config is the complete service configuration.
type Config struct {
	Bbox          BoundingBox    `yaml:"boundingbox"`
	Zoom          Zoom           `yaml:"zoom"`
	Output        string         `yaml:"output"`
	URL           string         `yaml:"url"`
	Subdomains    string         `yaml:"subdomains"`
	Rate          int            `yaml:"rate"`
	Retries       int            `yaml:"retries"`
	Timeout       int            `yaml:"timeout"` // seconds, 0 disables
	FetchExisting bool           `yaml:"fetchexisting"`
	Metrics       bool           `yaml:"metrics"`
	Logging       logging.Config `yaml:"logging"`
	Serve         Serve          `yaml:"serve"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		Zoom:    Zoom{Min: 1, Max: 18},
		Output:  "output",
		Rate:    5,
		Retries: 3,
		Timeout: 10,
		Serve:   Serve{Port: 8580},
	}
}

// Get returns the loaded configuration.
func Get() *Config {
	return &config
}

// Load loads the config from the given yaml file on top of the defaults.
func Load(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("can't load config file: %s", err.Error())
	}
	config = defaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("can't unmarshal config file: %s", err.Error())
	}
	return nil
}

// Option mutates the config, used for command line overrides.
type Option func(*Config)

// SetParameter applies the given options to the config.
func SetParameter(opts ...Option) {
	for _, o := range opts {
		o(&config)
	}
}

// WithPort overwrites the serve port, ignored when 0.
func WithPort(port int) Option {
	return func(c *Config) {
		if port > 0 {
			c.Serve.Port = port
		}
	}
}

// WithZoom sets min and max zoom to the same level, ignored when 0.
func WithZoom(zoom int) Option {
	return func(c *Config) {
		if zoom > 0 {
			c.Zoom.Min = zoom
			c.Zoom.Max = zoom
		}
	}
}

// WithZoomRange overwrites the zoom range, each bound ignored when 0.
func WithZoomRange(minZoom, maxZoom int) Option {
	return func(c *Config) {
		if minZoom > 0 {
			c.Zoom.Min = minZoom
		}
		if maxZoom > 0 {
			c.Zoom.Max = maxZoom
		}
	}
}

// Validate checks the config for plausibility before any network activity.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("no url template given")
	}
	if c.Zoom.Min < 1 || c.Zoom.Max < 1 {
		return fmt.Errorf("zoom levels must be >= 1")
	}
	if c.Zoom.Min > c.Zoom.Max {
		return fmt.Errorf("min zoom %d greater than max zoom %d", c.Zoom.Min, c.Zoom.Max)
	}
	if c.Rate < 1 {
		return fmt.Errorf("rate must be >= 1")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0")
	}
	if c.Output == "" {
		return fmt.Errorf("no output folder given")
	}
	if c.Bbox.Fixture == "" {
		for _, v := range []float64{c.Bbox.North, c.Bbox.East, c.Bbox.South, c.Bbox.West} {
			if v < -180 || v > 180 {
				return fmt.Errorf("bounding box value %f out of range [-180, 180]", v)
			}
		}
	} else if _, ok := mercator.Fixture(c.Bbox.Fixture); !ok {
		return fmt.Errorf("unknown bounding box fixture: %s", c.Bbox.Fixture)
	}
	return nil
}

// BoundingBox resolves the configured region into the projection type.
func (c *Config) BoundingBox() mercator.BoundingBox {
	if c.Bbox.Fixture != "" {
		b, ok := mercator.Fixture(c.Bbox.Fixture)
		if ok {
			return b
		}
	}
	return mercator.NewDeg(c.Bbox.North, c.Bbox.East, c.Bbox.South, c.Bbox.West)
}

// JSON dumps the config for the startup banner.
func (c *Config) JSON() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("can't marshal config: %s", err.Error())
	}
	return string(data), nil
}

// Init provides the config to the injector.
func Init(inj do.Injector) {
	do.ProvideValue(inj, &config)

	ver := NewVersion()
	do.ProvideValue(inj, *ver)
}
