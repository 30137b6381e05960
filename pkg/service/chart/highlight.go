package chart

import (
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// Opacity values applied while a category is hovered
const (
	dimmedSegmentOpacity = 0.7
	dimmedLegendOpacity  = 0.6
)

// Highlighter holds the legend hover state of a chart. The zero value is idle.
type Highlighter struct {
	hovered string
}

// Hovered returns the hovered category and whether one is hovered
func (h *Highlighter) Hovered() (string, bool) {
	return h.hovered, h.hovered != ""
}

// Enter moves to the hovering state for category and restyles chart. Moving
// from one category to another is allowed. Empty or unknown categories leave
// the state unchanged and return false.
func (h *Highlighter) Enter(chart *model.DonutChart, category string) bool {
	if chart == nil || category == "" || chart.Segment(category) == nil {
		return false
	}
	h.hovered = category
	h.Apply(chart)
	return true
}

// Leave returns to idle and restores the default styling of chart
func (h *Highlighter) Leave(chart *model.DonutChart) {
	h.hovered = ""
	h.Apply(chart)
}

// Apply styles chart according to the current state. It is called after a
// re-render; if the hovered category is gone the state falls back to idle.
func (h *Highlighter) Apply(chart *model.DonutChart) {
	if chart == nil {
		return
	}
	if h.hovered != "" && chart.Segment(h.hovered) == nil {
		h.hovered = ""
	}

	for i := range chart.Segments {
		seg := &chart.Segments[i]
		switch {
		case h.hovered == "":
			seg.Opacity, seg.Active = 1, false
		case seg.Category == h.hovered:
			seg.Opacity, seg.Active = 1, true
		default:
			seg.Opacity, seg.Active = dimmedSegmentOpacity, false
		}
	}

	for i := range chart.Legend {
		entry := &chart.Legend[i]
		switch {
		case h.hovered == "":
			entry.Opacity, entry.Bold = 1, false
		case entry.Category == h.hovered:
			entry.Opacity, entry.Bold = 1, true
		default:
			entry.Opacity, entry.Bold = dimmedLegendOpacity, false
		}
	}
}
