package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Theme holds the status color theme configuration
type Theme struct {
	Path string
}

// Flags returns CLI flags for Theme configuration
func (t *Theme) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "theme",
			Usage:       "YAML file overriding the status colors",
			Category:    "Display",
			Sources:     cli.EnvVars("OPSDASH_THEME"),
			Destination: &t.Path,
		},
	}
}

// Configure returns the color resolver of the theme file, or the built-in
// palette when no file is set
func (t *Theme) Configure() (*chart.ColorResolver, error) {
	if t.Path == "" {
		return chart.NewColorResolver(), nil
	}

	theme, err := LoadThemeFromFile(t.Path)
	if err != nil {
		return nil, err
	}
	return chart.NewColorResolverFromTheme(theme), nil
}

// LogValue returns structured log value
func (t Theme) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", t.Path))
}

// LoadThemeFromFile loads the status color theme from a YAML file
func LoadThemeFromFile(path string) (*model.ThemeConfig, error) {
	if path == "" {
		return nil, goerr.New("theme file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "theme file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read theme file",
			goerr.V("path", path))
	}

	var theme model.ThemeConfig
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML theme",
			goerr.V("path", path))
	}

	if err := theme.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid theme",
			goerr.V("path", path))
	}

	return &theme, nil
}
