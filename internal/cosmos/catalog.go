package cosmos

import (
	"fmt"
	"log/slog"
	"os"

	"cosmos-server/internal/shared/errors"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// rawStarProperties is one row as written in the catalog file.
type rawStarProperties struct {
	Class struct {
		Type    StarType `yaml:"type"`
		SubType uint32   `yaml:"sub_type"`
	} `yaml:"class"`
	Mass          float64 `yaml:"mass"`
	Radius        float64 `yaml:"radius"`
	Luminosity    float64 `yaml:"luminosity"`
	EffectiveTemp float64 `yaml:"effective_temp"`
	Color         string  `yaml:"color"`
}

// ParseTable decodes a YAML (or JSON) list of star property rows into a
// validated Table. Colours are sRGB hex strings and are stored linear.
func ParseTable(data []byte) (*Table, error) {
	var raw []rawStarProperties
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapConfiguration("failed to decode star property table", err)
	}

	rows := make([]StarProperties, 0, len(raw))
	for i, r := range raw {
		color, err := parseColor(r.Color)
		if err != nil {
			return nil, errors.WrapConfiguration(fmt.Sprintf("row %d: invalid color %q", i, r.Color), err)
		}

		rows = append(rows, StarProperties{
			Class: StarClass{
				Type:    r.Class.Type,
				SubType: r.Class.SubType,
			},
			Mass:                 r.Mass,
			Radius:               r.Radius,
			Luminosity:           r.Luminosity,
			EffectiveTemperature: r.EffectiveTemp,
			Color:                color,
		})
	}

	return NewTable(rows)
}

// LoadTable reads and parses the star property table at path.
func LoadTable(path string) (*Table, error) {
	logger := slog.With("component", "cosmos_catalog", "operation", "load_table", "path", path)
	logger.Debug("Loading star property table")

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read star property table", "error", err)
		return nil, errors.WrapConfiguration("failed to read star property table", err)
	}

	table, err := ParseTable(data)
	if err != nil {
		logger.Error("Invalid star property table", "error", err)
		return nil, err
	}

	logger.Info("Star property table loaded", "rows", table.Len())
	return table, nil
}

// ParseNames decodes a YAML (or JSON) list of star names.
func ParseNames(data []byte) ([]string, error) {
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, errors.WrapConfiguration("failed to decode star names", err)
	}

	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			return nil, errors.Configurationf("star name %d is empty", i)
		}
		if seen[name] {
			return nil, errors.Configurationf("duplicate star name %q", name)
		}
		seen[name] = true
	}

	return names, nil
}

// LoadNames reads the star name list at path. An empty path yields no names and
// every star falls back to a catalogue designation.
func LoadNames(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	logger := slog.With("component", "cosmos_catalog", "operation", "load_names", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read star names", "error", err)
		return nil, errors.WrapConfiguration("failed to read star names", err)
	}

	names, err := ParseNames(data)
	if err != nil {
		logger.Error("Invalid star names", "error", err)
		return nil, err
	}

	logger.Info("Star names loaded", "count", len(names))
	return names, nil
}

func parseColor(hex string) (RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBA{}, err
	}
	r, g, b := c.LinearRgb()
	return RGBA{R: r, G: g, B: b, A: 1}, nil
}
