package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config represents configuration for the latency chart
type Config struct {
	Target TargetConfig `yaml:"target"`

	Ping struct {
		Interval      duration `yaml:"interval"`
		Timeout       duration `yaml:"timeout"`
		Size          uint16   `yaml:"payload-size"`
		PlainInterval duration `yaml:"plain-interval"`
	} `yaml:"ping"`

	Chart struct {
		Capacity int     `yaml:"capacity"`
		Batch    int     `yaml:"batch"`
		Step     float64 `yaml:"step"`
		YMin     float64 `yaml:"y-min"`
		YMax     float64 `yaml:"y-max"`
	} `yaml:"chart"`

	Stats struct {
		BufferSize int `yaml:"buffer-size"`
	} `yaml:"stats"`

	DNS struct {
		Nameserver string `yaml:"nameserver"`
	} `yaml:"dns"`
}

type duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler interface.
func (d *duration) UnmarshalYAML(unmashal func(interface{}) error) error {
	var s string
	if err := unmashal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(dur)
	return nil
}

// Duration is a convenience getter.
func (d duration) Duration() time.Duration {
	return time.Duration(d)
}

// Set updates the underlying duration.
func (d *duration) Set(dur time.Duration) {
	*d = duration(dur)
}

// FromYAML reads YAML from reader and unmarshals it to Config
func FromYAML(r io.Reader) (*Config, error) {
	c := &Config{}
	err := yaml.NewDecoder(r).Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return c, nil
}

// FromFile reads the YAML config file at path.
func FromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load config file: %w", err)
	}
	defer f.Close()

	return FromYAML(f)
}

// Validate checks value ranges. Zero values must have been filled in before.
func (c *Config) Validate() error {
	if c.Target.Addr == "" {
		return errors.New("no target specified")
	}
	if c.Ping.Interval <= 0 {
		return errors.New("ping.interval must be greater than 0")
	}
	if c.Ping.Timeout <= 0 || c.Ping.Timeout >= c.Ping.Interval {
		return fmt.Errorf("ping.timeout (%s) must be greater than 0 and smaller than ping.interval (%s)",
			c.Ping.Timeout.Duration(), c.Ping.Interval.Duration())
	}
	if c.Ping.Size > 65500 {
		return errors.New("ping.payload-size must be between 0 and 65500")
	}
	if c.Ping.PlainInterval <= 0 {
		return errors.New("ping.plain-interval must be greater than 0")
	}
	if c.Chart.Capacity < 1 {
		return errors.New("chart.capacity must be greater than 0")
	}
	if c.Chart.Batch < 1 || c.Chart.Batch > c.Chart.Capacity {
		return fmt.Errorf("chart.batch must be between 1 and chart.capacity (%d)", c.Chart.Capacity)
	}
	if c.Chart.Step <= 0 {
		return errors.New("chart.step must be greater than 0")
	}
	if c.Chart.YMax <= c.Chart.YMin {
		return fmt.Errorf("chart.y-max (%v) must be greater than chart.y-min (%v)", c.Chart.YMax, c.Chart.YMin)
	}
	if c.Stats.BufferSize < 1 {
		return errors.New("stats.buffer-size must be greater than 0")
	}

	return nil
}
