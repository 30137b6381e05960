package chart

import (
	"html"
	"strconv"
	"strings"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// SVG renders chart as inline SVG markup with one path per wedge. An empty
// chart renders its placeholder instead.
func SVG(chart *model.DonutChart) string {
	if chart == nil || chart.Empty {
		msg := model.PlaceholderNoChartData
		if chart != nil && chart.Placeholder != "" {
			msg = chart.Placeholder
		}
		return `<div class="no-data">` + html.EscapeString(msg) + `</div>`
	}

	var b strings.Builder
	b.WriteString(`<svg class="donut-svg" viewBox="0 0 100 100" xmlns="http://www.w3.org/2000/svg">`)
	for _, seg := range chart.Segments {
		class := "donut-segment"
		if seg.Active {
			class += " active"
		}
		b.WriteString(`<path class="` + class + `"`)
		b.WriteString(` d="` + seg.Path + `"`)
		b.WriteString(` fill="` + html.EscapeString(seg.Color) + `"`)
		b.WriteString(` data-status="` + html.EscapeString(seg.Category) + `"`)
		b.WriteString(` style="opacity: ` + strconv.FormatFloat(seg.Opacity, 'f', -1, 64) + `"`)
		b.WriteString(`></path>`)
	}
	b.WriteString(`<circle class="donut-hole" cx="50" cy="50" r="30" fill="#ffffff"></circle>`)
	b.WriteString(`</svg>`)
	return b.String()
}
