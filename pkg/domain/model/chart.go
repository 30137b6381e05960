package model

// CategoryCount pairs a chart category with its count
type CategoryCount struct {
	Name  string
	Count int
}

// Point is a coordinate in the chart's 100x100 view box
type Point struct {
	X float64
	Y float64
}

// ArcSegment is one donut wedge. Angles are degrees clockwise from 12 o'clock.
type ArcSegment struct {
	Category   string
	Count      int
	Percentage float64
	StartAngle float64
	EndAngle   float64
	Start      Point
	End        Point
	LargeArc   bool
	Path       string
	Color      string
	Opacity    float64
	Active     bool
}

// Span returns the angular size of the wedge in degrees
func (s ArcSegment) Span() float64 {
	return s.EndAngle - s.StartAngle
}

// LegendEntry describes one category below the chart
type LegendEntry struct {
	Category string
	Count    int
	Percent  int
	Color    string
	Label    string
	Bold     bool
	Opacity  float64
}

// DonutChart is the rendered status distribution
type DonutChart struct {
	Segments      []ArcSegment
	Legend        []LegendEntry
	Total         int
	CenterPercent int
	CenterLabel   string
	Empty         bool
	Placeholder   string
}

// Segment returns the wedge for category, or nil
func (c *DonutChart) Segment(category string) *ArcSegment {
	for i := range c.Segments {
		if c.Segments[i].Category == category {
			return &c.Segments[i]
		}
	}
	return nil
}
