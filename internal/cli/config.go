package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flamegen/flamegen/pkg/flamegraph/render"
)

// Output formats.
const (
	FormatHTML      = "html"
	FormatJSON      = "json"
	FormatCollapsed = "collapsed"
	FormatPProf     = "pprof"
)

// FormatAuto makes the input format depend on the file extension.
const FormatAuto = "auto"

type Config struct {
	LogLevel string `yaml:"log_level"`

	Title    string  `yaml:"title"`
	Reverse  bool    `yaml:"reverse"`
	MinWidth float64 `yaml:"min_width"`
	Skip     int     `yaml:"skip"`

	Format      string `yaml:"format"`
	InputFormat string `yaml:"input_format"`
}

func (c *Config) fillDefault() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Title == "" {
		c.Title = "Flame Graph"
	}
	if c.Format == "" {
		c.Format = FormatHTML
	}
	if c.InputFormat == "" {
		c.InputFormat = FormatAuto
	}
}

func (c *Config) validate() error {
	switch c.Format {
	case FormatHTML, FormatJSON, FormatCollapsed, FormatPProf:
	default:
		return fmt.Errorf("cli: unsupported output format %q", c.Format)
	}
	switch c.InputFormat {
	case FormatAuto, FormatCollapsed, FormatPProf:
	default:
		return fmt.Errorf("cli: unsupported input format %q", c.InputFormat)
	}
	if c.MinWidth < 0 || c.MinWidth > 100 {
		return fmt.Errorf("cli: min width %v is out of range [0, 100]", c.MinWidth)
	}
	if c.Skip < 0 {
		return fmt.Errorf("cli: negative skip %d", c.Skip)
	}
	return nil
}

// ParseConfig reads a YAML config file. Callers are expected to lay
// changed flags over the result before constructing the app.
func ParseConfig(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("cli: open config file: %w", err)
	}
	defer file.Close()

	var conf Config

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil {
		return nil, fmt.Errorf("cli: parse config %s: %w", configPath, err)
	}

	return &conf, nil
}

// RenderOptions extracts the part of the config the renderer needs.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Title:    c.Title,
		Reverse:  c.Reverse,
		MinWidth: c.MinWidth,
		Skip:     c.Skip,
	}
}
