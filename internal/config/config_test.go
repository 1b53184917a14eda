package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testYaml = `
boundingbox:
  north: 50.811
  east: 6.1649
  south: 50.7492
  west: 6.031
zoom:
  min: 8
  max: 12
output: /tmp/tiles
url: "https://{s}.tile.example.org/{z}/{x}/{y}.png"
subdomains: "a,b,c"
rate: 10
retries: 2
timeout: 30
fetchexisting: true
metrics: true
serve:
  active: true
  port: 9090
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(fn, []byte(content), 0o644)
	assert.NoError(t, err)
	return fn
}

func TestLoad(t *testing.T) {
	ast := assert.New(t)
	ast.NoError(Load(writeConfig(t, testYaml)))
	defer func() { config = defaultConfig() }()

	cfg := Get()
	ast.Equal(50.811, cfg.Bbox.North)
	ast.Equal(6.031, cfg.Bbox.West)
	ast.Equal(8, cfg.Zoom.Min)
	ast.Equal(12, cfg.Zoom.Max)
	ast.Equal("/tmp/tiles", cfg.Output)
	ast.Equal(10, cfg.Rate)
	ast.Equal(2, cfg.Retries)
	ast.Equal(30, cfg.Timeout)
	ast.True(cfg.FetchExisting)
	ast.True(cfg.Metrics)
	ast.True(cfg.Serve.Active)
	ast.Equal(9090, cfg.Serve.Port)
	ast.NoError(cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	ast := assert.New(t)
	ast.Error(Load(filepath.Join(t.TempDir(), "nothere.yaml")))
}

func TestDefaults(t *testing.T) {
	ast := assert.New(t)
	cfg := defaultConfig()
	ast.Equal(1, cfg.Zoom.Min)
	ast.Equal(18, cfg.Zoom.Max)
	ast.Equal(5, cfg.Rate)
	ast.Equal(3, cfg.Retries)
	ast.Equal(10, cfg.Timeout)
	ast.Equal("output", cfg.Output)
	ast.False(cfg.FetchExisting)
}

func TestValidate(t *testing.T) {
	ast := assert.New(t)
	tt := []struct {
		name   string
		mangle func(c *Config)
	}{
		{"no url", func(c *Config) { c.URL = "" }},
		{"zoom zero", func(c *Config) { c.Zoom.Min = 0 }},
		{"zoom flipped", func(c *Config) { c.Zoom.Min = 10; c.Zoom.Max = 5 }},
		{"rate zero", func(c *Config) { c.Rate = 0 }},
		{"negative retries", func(c *Config) { c.Retries = -1 }},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }},
		{"no output", func(c *Config) { c.Output = "" }},
		{"bbox out of range", func(c *Config) { c.Bbox.North = 181 }},
		{"unknown fixture", func(c *Config) { c.Bbox.Fixture = "atlantis" }},
	}
	for _, td := range tt {
		cfg := defaultConfig()
		cfg.URL = "https://tile.example.org/{z}/{x}/{y}.png"
		td.mangle(&cfg)
		ast.Error(cfg.Validate(), td.name)
	}
}

func TestSetParameter(t *testing.T) {
	ast := assert.New(t)
	config = defaultConfig()
	defer func() { config = defaultConfig() }()

	SetParameter(WithZoomRange(5, 9), WithPort(9999))
	ast.Equal(5, Get().Zoom.Min)
	ast.Equal(9, Get().Zoom.Max)
	ast.Equal(9999, Get().Serve.Port)

	SetParameter(WithZoom(7))
	ast.Equal(7, Get().Zoom.Min)
	ast.Equal(7, Get().Zoom.Max)

	// zero values keep the config untouched
	SetParameter(WithZoom(0), WithPort(0))
	ast.Equal(7, Get().Zoom.Min)
	ast.Equal(9999, Get().Serve.Port)
}

func TestBoundingBoxFixture(t *testing.T) {
	ast := assert.New(t)
	cfg := defaultConfig()
	cfg.Bbox.Fixture = "aachen"
	b := cfg.BoundingBox()
	ast.InDelta(50.811, b.North*180.0/math.Pi, 0.0001)
}

func TestJSONDump(t *testing.T) {
	ast := assert.New(t)
	cfg := defaultConfig()
	js, err := cfg.JSON()
	ast.NoError(err)
	ast.Contains(js, "zoom:")
	ast.Contains(js, "rate: 5")
}
