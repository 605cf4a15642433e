// Package config loads the controller configuration from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/segfont"
	"github.com/flavioheleno/udc/splitflap"
)

// Duration is a time.Duration written as a string such as "350us" in JSON.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config represents the application configuration.
type Config struct {
	Display  DisplayConfig  `json:"display"`
	Bus      BusConfig      `json:"bus"`
	Creative CreativeConfig `json:"creative"`
}

// DisplayConfig describes the attached display.
type DisplayConfig struct {
	Kind display.Kind `json:"kind"`

	// Segment displays.
	Geometry   ledmap.Geometry `json:"geometry"`
	Font       string          `json:"font"`
	Brightness uint8           `json:"brightness"`
	Gamma      float64         `json:"gamma"`
	Split      int             `json:"split"`

	// Flipdot panels.
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	PanelWidth int      `json:"panel_width"`
	PulseWidth Duration `json:"pulse_width"`
	SettleTime Duration `json:"settle_time"`

	// Split-flap units.
	Protocol  string `json:"protocol"`
	Units     int    `json:"units"`
	Addresses []int  `json:"addresses"`

	// IBIS displays.
	Row int `json:"row"`

	// Interval between two renders.
	Interval Duration `json:"interval"`
}

// BusConfig names the host resources the display is attached to.
type BusConfig struct {
	SPI  string `json:"spi"`
	SPI2 string `json:"spi2"`
	UART string `json:"uart"`
	// Pulse line of flipdot displays, as a GPIO character device chip and
	// line offset.
	Chip      string `json:"chip"`
	PulseLine int    `json:"pulse_line"`
}

// CreativeConfig holds the raw JSON of the generator, shader, transition and
// effect, parsed by the bitmap and shader packages.
type CreativeConfig struct {
	Text       string          `json:"text"`
	Generator  json.RawMessage `json:"generator,omitempty"`
	Shader     json.RawMessage `json:"shader,omitempty"`
	Transition json.RawMessage `json:"transition,omitempty"`
	Effect     json.RawMessage `json:"effect,omitempty"`
}

// LoadConfig loads the configuration from a file. Settings missing from the
// file keep their DefaultConfig value.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return config, nil
}

// DefaultConfig returns the default configuration: the 21x2 reference segment
// display on the first SPI bus.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Kind:       display.KindWS281x,
			Geometry:   ledmap.ReferenceGeometry,
			Font:       segfont.Split.Name,
			Brightness: 64,
			Gamma:      1,
			Width:      28,
			Height:     16,
			PanelWidth: 28,
			PulseWidth: Duration(200 * time.Microsecond),
			SettleTime: Duration(100 * time.Microsecond),
			Protocol:   splitflap.Position.String(),
			Units:      1,
			Interval:   Duration(20 * time.Millisecond),
		},
		Bus: BusConfig{
			Chip: "gpiochip0",
		},
		Creative: CreativeConfig{
			Text: "HELLO",
		},
	}
}

// Validate checks the settings used by the configured display kind.
func (c *Config) Validate() error {
	d := &c.Display
	if d.Interval <= 0 {
		return errors.New("display.interval must be positive")
	}
	switch d.Kind {
	case display.KindWS281x, display.KindWS281xDual:
		if d.Geometry.Cols <= 0 || d.Geometry.Rows <= 0 {
			return errors.New("display.geometry must be at least 1x1")
		}
		if segfont.ByName(d.Font) == nil {
			return fmt.Errorf("display.font: unknown font %q", d.Font)
		}
		if d.Gamma < 0 {
			return errors.New("display.gamma must not be negative")
		}
		if d.Kind == display.KindWS281xDual {
			if d.Split < 0 || d.Split >= d.Geometry.LEDs() {
				return fmt.Errorf("display.split must be below %d", d.Geometry.LEDs())
			}
			if c.Bus.SPI2 == "" {
				return errors.New("bus.spi2 is required for a dual bus display")
			}
		}
	case display.KindFlipdot:
		if d.Width <= 0 || d.Height <= 0 || d.PanelWidth <= 0 {
			return errors.New("display.width, height and panel_width must be positive")
		}
		if d.PulseWidth <= 0 {
			return errors.New("display.pulse_width must be positive")
		}
		if c.Bus.Chip == "" || c.Bus.PulseLine < 0 {
			return errors.New("bus.chip and bus.pulse_line are required for flipdot")
		}
	case display.KindSplitFlap:
		if _, err := splitflap.ParseProtocol(d.Protocol); err != nil {
			return fmt.Errorf("display.protocol: %w", err)
		}
		if d.Units <= 0 {
			return errors.New("display.units must be positive")
		}
		if len(d.Addresses) != 0 && len(d.Addresses) != d.Units {
			return errors.New("display.addresses must have one entry per unit")
		}
		for _, a := range d.Addresses {
			if a < 0 || a > 0x7F {
				return fmt.Errorf("display.addresses: %d is not a 7-bit address", a)
			}
		}
	case display.KindIBIS:
		if d.Row < 0 {
			return errors.New("display.row must not be negative")
		}
	}
	return nil
}

// AddressBytes returns the split-flap address map as bytes.
func (d *DisplayConfig) AddressBytes() []byte {
	if len(d.Addresses) == 0 {
		return nil
	}
	out := make([]byte, len(d.Addresses))
	for i, a := range d.Addresses {
		out[i] = byte(a)
	}
	return out
}
