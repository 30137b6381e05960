package model

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultFallbackColor is used for categories missing from the theme
const DefaultFallbackColor = "#999999"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// StatusColor assigns a color to a status name
type StatusColor struct {
	Status string `yaml:"status"` // Status name; normalized before lookup
	Color  string `yaml:"color"`  // #rrggbb
}

// Validate validates the status color
func (c *StatusColor) Validate() error {
	if c.Status == "" {
		return goerr.New("status is required")
	}
	if !hexColorPattern.MatchString(c.Color) {
		return goerr.New("color must be #rrggbb", goerr.V("color", c.Color))
	}
	return nil
}

// ThemeConfig represents the status color theme file
type ThemeConfig struct {
	Fallback string        `yaml:"fallback"`
	Colors   []StatusColor `yaml:"colors"`
}

// Validate validates the theme configuration
func (c *ThemeConfig) Validate() error {
	if len(c.Colors) == 0 {
		return goerr.New("at least one status color is required")
	}
	if c.Fallback != "" && !hexColorPattern.MatchString(c.Fallback) {
		return goerr.New("fallback color must be #rrggbb", goerr.V("fallback", c.Fallback))
	}

	seen := make(map[string]bool)
	for i, sc := range c.Colors {
		if err := sc.Validate(); err != nil {
			return goerr.Wrap(err, "invalid status color at index",
				goerr.V("index", i),
				goerr.V("status", sc.Status))
		}

		key := NormalizeStatusKey(sc.Status)
		if seen[key] {
			return goerr.New("duplicate status color", goerr.V("status", sc.Status))
		}
		seen[key] = true
	}

	return nil
}

// NormalizeStatusKey turns a status or category name into its theme key:
// lowercase, with underscores and runs of whitespace replaced by a hyphen.
// "Bad Request" and "BAD_REQUEST" both become "bad-request".
func NormalizeStatusKey(status string) string {
	lower := strings.ToLower(strings.ReplaceAll(status, "_", " "))
	return strings.Join(strings.Fields(lower), "-")
}
