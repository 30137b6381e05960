package chart

import (
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// defaultColors is the built-in status palette keyed by normalized status name
var defaultColors = map[string]string{
	"submitted":      "#3b82f6",
	"complete":       "#22c55e",
	"bad-request":    "#f59e0b",
	"cd-unavailable": "#ef4444",
	"ep-unavailable": "#a855f7",
}

// ColorResolver maps a category name to a display color
type ColorResolver struct {
	colors   map[string]string
	fallback string
}

// NewColorResolver returns a resolver with the built-in palette
func NewColorResolver() *ColorResolver {
	colors := make(map[string]string, len(defaultColors))
	for k, v := range defaultColors {
		colors[k] = v
	}
	return &ColorResolver{
		colors:   colors,
		fallback: model.DefaultFallbackColor,
	}
}

// NewColorResolverFromTheme returns a resolver whose palette is the built-in
// one overridden by theme. A nil theme yields the built-in palette.
func NewColorResolverFromTheme(theme *model.ThemeConfig) *ColorResolver {
	r := NewColorResolver()
	if theme == nil {
		return r
	}

	for _, sc := range theme.Colors {
		r.colors[model.NormalizeStatusKey(sc.Status)] = sc.Color
	}
	if theme.Fallback != "" {
		r.fallback = theme.Fallback
	}
	return r
}

// Resolve returns the color for category. Lookup is case insensitive and
// treats spaces and underscores alike; unknown categories get the fallback.
func (r *ColorResolver) Resolve(category string) string {
	if c, ok := r.colors[model.NormalizeStatusKey(category)]; ok {
		return c
	}
	return r.fallback
}

// Fallback returns the color used for unknown categories
func (r *ColorResolver) Fallback() string {
	return r.fallback
}
