package chart

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// Chart geometry in view box units. The view box is 100x100.
const (
	centerX = 50.0
	centerY = 50.0
	radius  = 50.0

	// DefaultPrimaryCategory is the category whose share is shown in the center
	DefaultPrimaryCategory = "Complete"
)

// Renderer turns category counts into a donut chart view model
type Renderer struct {
	colors  *ColorResolver
	primary string
}

// Option configures a Renderer
type Option func(*Renderer)

// WithPrimaryCategory sets the category shown in the chart center
func WithPrimaryCategory(name string) Option {
	return func(r *Renderer) {
		r.primary = name
	}
}

// NewRenderer creates a renderer. A nil resolver uses the built-in palette.
func NewRenderer(colors *ColorResolver, opts ...Option) *Renderer {
	if colors == nil {
		colors = NewColorResolver()
	}
	r := &Renderer{
		colors:  colors,
		primary: DefaultPrimaryCategory,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the chart for counts. Entries with a count of zero or less
// are dropped. The rest are ordered by descending count, keeping input order
// for ties. The result is freshly built on every call.
func (r *Renderer) Render(counts []model.CategoryCount) *model.DonutChart {
	included := make([]model.CategoryCount, 0, len(counts))
	total := 0
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		included = append(included, c)
		total += c.Count
	}

	if total == 0 {
		return &model.DonutChart{
			Empty:       true,
			Placeholder: model.PlaceholderNoChartData,
			CenterLabel: r.primary,
		}
	}

	sort.SliceStable(included, func(i, j int) bool {
		return included[i].Count > included[j].Count
	})

	chart := &model.DonutChart{
		Segments:    make([]model.ArcSegment, 0, len(included)),
		Legend:      make([]model.LegendEntry, 0, len(included)),
		Total:       total,
		CenterLabel: r.primary,
	}

	cumulative := 0.0
	for i, c := range included {
		pct := float64(c.Count) / float64(total) * 100
		start := cumulative
		end := start + pct*3.6
		// Pin the last wedge so rounding never leaves a gap at 12 o'clock
		if i == len(included)-1 {
			end = 360
		}
		cumulative = end

		color := r.colors.Resolve(c.Name)
		seg := model.ArcSegment{
			Category:   c.Name,
			Count:      c.Count,
			Percentage: pct,
			StartAngle: start,
			EndAngle:   end,
			Start:      pointAt(start),
			End:        pointAt(end),
			LargeArc:   end-start > 180,
			Color:      color,
			Opacity:    1,
		}
		seg.Path = arcPath(seg)
		chart.Segments = append(chart.Segments, seg)

		rounded := int(math.Round(pct))
		chart.Legend = append(chart.Legend, model.LegendEntry{
			Category: c.Name,
			Count:    c.Count,
			Percent:  rounded,
			Color:    color,
			Label:    fmt.Sprintf("%s: %d (%d%%)", c.Name, c.Count, rounded),
			Opacity:  1,
		})

		if c.Name == r.primary {
			chart.CenterPercent += c.Count
		}
	}
	chart.CenterPercent = int(math.Round(float64(chart.CenterPercent) / float64(total) * 100))

	return chart
}

// pointAt returns the point on the circle at angle degrees clockwise from
// 12 o'clock
func pointAt(angle float64) model.Point {
	rad := (angle - 90) * math.Pi / 180
	return model.Point{
		X: centerX + radius*math.Cos(rad),
		Y: centerY + radius*math.Sin(rad),
	}
}

func arcPath(seg model.ArcSegment) string {
	// A single arc with coincident endpoints draws nothing, so a full circle
	// is split into two half arcs.
	if seg.Span() >= 360 {
		mid := pointAt(seg.StartAngle + 180)
		return fmt.Sprintf("M %s %s L %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
			coord(centerX), coord(centerY),
			coord(seg.Start.X), coord(seg.Start.Y),
			coord(radius), coord(radius), coord(mid.X), coord(mid.Y),
			coord(radius), coord(radius), coord(seg.End.X), coord(seg.End.Y),
		)
	}

	large := 0
	if seg.LargeArc {
		large = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		coord(centerX), coord(centerY),
		coord(seg.Start.X), coord(seg.Start.Y),
		coord(radius), coord(radius), large,
		coord(seg.End.X), coord(seg.End.Y),
	)
}

// coord formats a coordinate with at most four decimals
func coord(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
