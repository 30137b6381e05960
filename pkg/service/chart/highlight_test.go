package chart_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
)

func newTestChart() *model.DonutChart {
	return chart.NewRenderer(nil).Render([]model.CategoryCount{
		{Name: "Submitted", Count: 2},
		{Name: "Complete", Count: 5},
		{Name: "Bad Request", Count: 1},
	})
}

func TestHighlighter(t *testing.T) {
	t.Run("hovering a legend entry emphasizes its wedge", func(t *testing.T) {
		c := newTestChart()
		var h chart.Highlighter

		gt.True(t, h.Enter(c, "Submitted"))
		hovered, ok := h.Hovered()
		gt.True(t, ok)
		gt.Equal(t, hovered, "Submitted")

		for _, seg := range c.Segments {
			if seg.Category == "Submitted" {
				gt.Equal(t, seg.Opacity, 1.0)
				gt.True(t, seg.Active)
			} else {
				gt.Equal(t, seg.Opacity, 0.7)
				gt.False(t, seg.Active)
			}
		}
		for _, entry := range c.Legend {
			if entry.Category == "Submitted" {
				gt.True(t, entry.Bold)
				gt.Equal(t, entry.Opacity, 1.0)
			} else {
				gt.False(t, entry.Bold)
				gt.Equal(t, entry.Opacity, 0.6)
			}
		}
	})

	t.Run("leaving restores every wedge", func(t *testing.T) {
		c := newTestChart()
		var h chart.Highlighter

		h.Enter(c, "Complete")
		h.Leave(c)

		_, ok := h.Hovered()
		gt.False(t, ok)
		for _, seg := range c.Segments {
			gt.Equal(t, seg.Opacity, 1.0)
			gt.False(t, seg.Active)
		}
		for _, entry := range c.Legend {
			gt.Equal(t, entry.Opacity, 1.0)
			gt.False(t, entry.Bold)
		}
	})

	t.Run("moving between entries switches the highlight", func(t *testing.T) {
		c := newTestChart()
		var h chart.Highlighter

		h.Enter(c, "Complete")
		gt.True(t, h.Enter(c, "Bad Request"))

		gt.True(t, c.Segment("Bad Request").Active)
		gt.False(t, c.Segment("Complete").Active)
		gt.Equal(t, c.Segment("Complete").Opacity, 0.7)
	})

	t.Run("unknown or empty category is ignored", func(t *testing.T) {
		c := newTestChart()
		var h chart.Highlighter

		h.Enter(c, "Complete")
		gt.False(t, h.Enter(c, "Nope"))
		gt.False(t, h.Enter(c, ""))

		hovered, _ := h.Hovered()
		gt.Equal(t, hovered, "Complete")
		gt.True(t, c.Segment("Complete").Active)
	})

	t.Run("re-render keeps the hovered category", func(t *testing.T) {
		var h chart.Highlighter
		h.Enter(newTestChart(), "Submitted")

		c := newTestChart()
		h.Apply(c)
		gt.True(t, c.Segment("Submitted").Active)
		gt.Equal(t, c.Segment("Complete").Opacity, 0.7)
	})

	t.Run("re-render without the hovered category falls back to idle", func(t *testing.T) {
		var h chart.Highlighter
		h.Enter(newTestChart(), "Bad Request")

		c := chart.NewRenderer(nil).Render([]model.CategoryCount{{Name: "Complete", Count: 1}})
		h.Apply(c)

		_, ok := h.Hovered()
		gt.False(t, ok)
		gt.Equal(t, c.Segments[0].Opacity, 1.0)
	})

	t.Run("empty chart has nothing to hover", func(t *testing.T) {
		var h chart.Highlighter
		c := chart.NewRenderer(nil).Render(nil)
		gt.False(t, h.Enter(c, "Complete"))
		gt.False(t, h.Enter(nil, "Complete"))
	})
}
