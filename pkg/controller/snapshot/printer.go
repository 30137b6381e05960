package snapshot

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"golang.org/x/term"
)

// ColorMode selects when the printer emits ANSI colors
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses "auto", "always" or "never"
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", goerr.New("invalid color mode, must be auto, always or never",
			goerr.V("mode", s),
			goerr.T(model.ErrTagInvalidArgument))
	}
}

// barWidth is the length of the distribution bar at 100%
const barWidth = 30

// Printer writes one-shot text renditions of the dashboard views
type Printer struct {
	w         io.Writer
	colors    *chart.ColorResolver
	useColors bool
}

// Option configures a Printer
type Option func(*Printer)

// WithColors sets the status colors
func WithColors(c *chart.ColorResolver) Option {
	return func(p *Printer) {
		p.colors = c
	}
}

// WithColorMode decides whether ANSI colors are written. Auto enables them
// when w is a terminal and NO_COLOR is unset.
func WithColorMode(mode ColorMode) Option {
	return func(p *Printer) {
		p.useColors = resolveColors(mode, p.w)
	}
}

func resolveColors(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewPrinter creates a printer writing to w. Colors are off unless
// WithColorMode enables them.
func NewPrinter(w io.Writer, opts ...Option) *Printer {
	p := &Printer{
		w:      w,
		colors: chart.NewColorResolver(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// statusStyle colors text with the theme color of a status or category
func (p *Printer) statusStyle(status string) *color.Color {
	r, g, b, ok := parseHex(p.colors.Resolve(status))
	if !ok {
		return p.style()
	}
	c := color.RGB(r, g, b)
	if p.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func parseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func (p *Printer) title(text string) {
	p.style(color.Bold).Fprintf(p.w, "\n%s\n", text)
	p.style(color.Faint).Fprintf(p.w, "%s\n", strings.Repeat("─", len([]rune(text))))
}

func (p *Printer) newTable() *tablewriter.Table {
	return tablewriter.NewTable(p.w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
}

func (p *Printer) renderTable(header []string, rows [][]string) error {
	t := p.newTable()
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return goerr.Wrap(err, "failed to add table rows")
	}
	if err := t.Render(); err != nil {
		return goerr.Wrap(err, "failed to render table")
	}
	return nil
}

// placeholder prints the message of a panel that is not ok
func (p *Printer) placeholder(panel model.Panel) {
	if panel.State == model.PanelError {
		p.style(color.FgRed, color.Bold).Fprintf(p.w, "%s\n", panel.Message)
		return
	}
	p.style(color.Faint).Fprintf(p.w, "%s\n", panel.Message)
}

// PrintDashboard writes the stat cards, detail panels, status distribution
// and the transactions of the window
func (p *Printer) PrintDashboard(view *model.DashboardView) error {
	p.title(fmt.Sprintf("Dashboard (last %s)", view.TimeWindow))

	cards := [][]string{{view.Cards.TotalVolume, view.Cards.TxPerSec, view.Cards.AvgLatency, view.Cards.ActiveUsers}}
	if err := p.renderTable([]string{"Total Volume", "Throughput (tx/s)", "Avg Latency", "Active Users"}, cards); err != nil {
		return err
	}

	if view.Stats.State != model.PanelOK {
		p.placeholder(view.Stats)
	} else {
		for _, panel := range view.Panels {
			p.title(panel.Title)
			rows := make([][]string, 0, len(panel.Items))
			for _, item := range panel.Items {
				rows = append(rows, []string{item.Label, item.Value})
			}
			if err := p.renderTable([]string{"Metric", "Value"}, rows); err != nil {
				return err
			}
		}

		p.title("Status Distribution")
		if err := p.printChart(view.Chart); err != nil {
			return err
		}
	}

	p.title("Transactions")
	return p.printTransactions(view.Table)
}

func (p *Printer) printChart(c *model.DonutChart) error {
	if c == nil || c.Empty {
		msg := model.PlaceholderNoChartData
		if c != nil && c.Placeholder != "" {
			msg = c.Placeholder
		}
		p.style(color.Faint).Fprintf(p.w, "%s\n", msg)
		return nil
	}

	rows := make([][]string, 0, len(c.Legend))
	for _, e := range c.Legend {
		cells := e.Percent * barWidth / 100
		if cells < 1 {
			cells = 1
		}
		rows = append(rows, []string{
			p.statusStyle(e.Category).Sprint("■ " + e.Category),
			strconv.Itoa(e.Count),
			strconv.Itoa(e.Percent) + "%",
			p.statusStyle(e.Category).Sprint(strings.Repeat("█", cells)),
		})
	}
	if err := p.renderTable([]string{"Status", "Count", "Share", ""}, rows); err != nil {
		return err
	}
	p.style(color.Bold).Fprintf(p.w, "%d%% %s\n", c.CenterPercent, c.CenterLabel)
	return nil
}

func (p *Printer) printTransactions(t *model.TransactionTable) error {
	if t == nil {
		p.style(color.Faint).Fprintf(p.w, "%s\n", model.PlaceholderLoading)
		return nil
	}
	if t.State != model.PanelOK {
		p.placeholder(t.Panel)
		return nil
	}

	header := append([]string{}, t.Columns...)
	if t.IncludeActions {
		header = append([]string{"ID"}, header...)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := []string{r.Username, r.FileName, r.Size, r.IngressTime, r.EgressTime, r.Transit,
			p.statusStyle(r.Status).Sprint(r.Status)}
		if t.IncludeActions {
			row = append([]string{r.ID}, row...)
		}
		rows = append(rows, row)
	}
	return p.renderTable(header, rows)
}

// PrintFeed writes the filtered live feed
func (p *Printer) PrintFeed(view *model.FeedView) error {
	p.title("Live Transactions")

	filters := []string{"items " + strconv.Itoa(view.NumItems)}
	if view.UsernameFilter != "" {
		filters = append(filters, "user "+view.UsernameFilter)
	}
	if view.StatusFilter != "" {
		filters = append(filters, "status "+view.StatusFilter)
	}
	filters = append(filters, fmt.Sprintf("showing %d of %d", len(view.Table.Rows), view.Total))
	p.style(color.Faint).Fprintf(p.w, "%s\n", strings.Join(filters, ", "))

	return p.printTransactions(view.Table)
}

// PrintDBStatus writes the transaction source summary
func (p *Printer) PrintDBStatus(status *model.DBStatus) error {
	p.title("Transaction Source")

	newest := status.Newest
	if newest == "" {
		newest = model.NotAvailable
	}
	rows := [][]string{
		{"Backend", status.Backend},
		{"Host", status.Host},
		{"Total records", strconv.Itoa(status.TotalRecords)},
		{"Newest", newest},
	}
	return p.renderTable([]string{"Field", "Value"}, rows)
}

// PrintDBTableStats writes the record count of each collection, sorted by
// name, followed by the totals
func (p *Printer) PrintDBTableStats(stats *model.DBTableStats) error {
	p.title("Collections")

	names := make([]string, 0, len(stats.TableStats))
	for name := range stats.TableStats {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(stats.TableStats[name])})
	}
	if err := p.renderTable([]string{"Collection", "Records"}, rows); err != nil {
		return err
	}

	size := stats.DBSize
	if size == "" {
		size = model.NotAvailable
	}
	p.style(color.Faint).Fprintf(p.w, "total records %d, size %s\n", stats.TotalRecords, size)
	return nil
}

// PrintClearResult writes the outcome of clearing the transaction source
func (p *Printer) PrintClearResult(result *model.ClearResult) {
	if result.Success {
		p.style(color.FgGreen).Fprintf(p.w, "✓ %s\n", result.Message)
		return
	}
	p.style(color.FgRed).Fprintf(p.w, "✗ %s\n", result.Message)
}
