// Package config loads the TOML run configuration for the snesim CLI,
// layering CLI flag overrides on top of file-configured defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Level is one pyramid level's template configuration.
type Level struct {
	K  int     `toml:"k"`
	Rx float64 `toml:"rx"`
	Ry float64 `toml:"ry"`
	Rz float64 `toml:"rz"`
}

// Config is the full run configuration for a simulation.
type Config struct {
	TIPath     string `toml:"ti_path"`
	OutputPath string `toml:"output_path"`
	TIProperty string `toml:"ti_property"`

	Nx int     `toml:"nx"`
	Ny int     `toml:"ny"`
	Nz int     `toml:"nz"`
	Sx float64 `toml:"sx"`
	Sy float64 `toml:"sy"`
	Sz float64 `toml:"sz"`
	X0 float64 `toml:"x0"`
	Y0 float64 `toml:"y0"`
	Z0 float64 `toml:"z0"`

	Levels []Level `toml:"level"`

	Theta float64 `toml:"theta"`
	Seed  uint32  `toml:"seed"`
	CDMin int     `toml:"cd_min"`

	Sentinel float32 `toml:"sentinel"`
	Delim    string  `toml:"delim"`
}

// Default returns a Config with the reference defaults: a single pyramid
// level, theta=75, cd_min=1, sentinel=-99.
func Default() Config {
	return Config{
		TIProperty: "facies",
		Sx:         1, Sy: 1, Sz: 1,
		Levels:   []Level{{K: 24, Rx: 1, Ry: 1, Rz: 1}},
		Theta:    75,
		CDMin:    1,
		Sentinel: -99,
		Delim:    " ",
	}
}

// Load reads and decodes a TOML config file at path on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// DelimRune resolves the Delim string to a rune for field splitting: "tab",
// "space", "semicolon", "comma" or a literal single character.
func (c Config) DelimRune() rune {
	switch c.Delim {
	case "tab":
		return '\t'
	case "space", "":
		return ' '
	case "semicolon":
		return ';'
	case "comma":
		return ','
	default:
		return rune(c.Delim[0])
	}
}
