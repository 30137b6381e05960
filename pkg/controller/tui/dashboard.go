package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/secmon-lab/opsdash/pkg/usecase"
)

// chartBarWidth is the number of cells of the distribution bar
const chartBarWidth = 40

// DashboardMsg carries the outcome of one dashboard stats fetch
type DashboardMsg struct {
	Response *model.DashboardResponse
	Err      error
}

type dashboardKeys struct {
	commonKeys
	Window key.Binding
	Next   key.Binding
	Prev   key.Binding
	Clear  key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		commonKeys: newCommonKeys(),
		Window: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "time window"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/l", "next status"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/h", "prev status"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear highlight"),
		),
	}
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Window, k.Refresh, k.Next, k.Help, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Window, k.Refresh, k.Reload},
		{k.Next, k.Prev, k.Clear},
		{k.Help, k.Quit},
	}
}

// DashboardModel is the terminal dashboard: stat cards, detail panels, the
// status distribution and the transactions of the selected window.
type DashboardModel struct {
	ctx    context.Context
	uc     *usecase.DashboardUseCase
	poller *usecase.Poller[*model.DashboardResponse]
	colors *chart.ColorResolver
	keys   dashboardKeys
	help   help.Model
	spin   spinner.Model
	send   func(tea.Msg)

	view        *model.DashboardView
	highlighter chart.Highlighter
	refresh     time.Duration
	width       int
}

// DashboardOption configures a DashboardModel
type DashboardOption func(*DashboardModel)

// WithDashboardColors sets the status colors used for the chart and badges
func WithDashboardColors(c *chart.ColorResolver) DashboardOption {
	return func(m *DashboardModel) {
		m.colors = c
	}
}

// WithDashboardRefresh sets the initial auto-refresh period
func WithDashboardRefresh(d time.Duration) DashboardOption {
	return func(m *DashboardModel) {
		m.refresh = d
	}
}

// NewDashboardModel creates the dashboard model. Fetch results reach the
// model through the program once Run starts it.
func NewDashboardModel(ctx context.Context, uc *usecase.DashboardUseCase, opts ...DashboardOption) *DashboardModel {
	m := &DashboardModel{
		ctx:     ctx,
		uc:      uc,
		colors:  chart.NewColorResolver(),
		keys:    newDashboardKeys(),
		help:    help.New(),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		refresh: DefaultRefreshRate,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.view = uc.LoadingView()
	m.poller = usecase.NewPoller(uc.Fetch,
		func(resp *model.DashboardResponse) { m.notify(DashboardMsg{Response: resp}) },
		func(err error) { m.notify(DashboardMsg{Err: err}) },
	)
	return m
}

func (m *DashboardModel) notify(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

// Run starts polling and blocks until the user quits or ctx is cancelled
func (m *DashboardModel) Run(opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(m.ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	m.send = p.Send

	m.poller.Start(m.ctx, m.refresh)
	defer m.poller.Stop()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return goerr.Wrap(err, "dashboard UI stopped with error")
	}
	return nil
}

// Init fetches the first snapshot
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.reload)
}

func (m *DashboardModel) reload() tea.Msg {
	m.poller.Trigger(m.ctx)
	return nil
}

// Update handles fetch results and key presses
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case DashboardMsg:
		m.view = m.uc.View(msg.Response, msg.Err)
		m.highlighter.Apply(m.view.Chart)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Window):
		next := m.uc.TimeWindow().Next()
		if err := m.uc.SetTimeWindow(next); err != nil {
			ctxlog.From(m.ctx).Warn("failed to change time window", "error", err)
			return m, nil
		}
		// The running request still uses the old window
		m.poller.Refresh(m.ctx)

	case key.Matches(msg, m.keys.Refresh):
		m.refresh = nextRefreshRate(m.refresh)
		m.poller.Start(m.ctx, m.refresh)
		if m.refresh > 0 {
			m.poller.Trigger(m.ctx)
		}

	case key.Matches(msg, m.keys.Reload):
		m.poller.Trigger(m.ctx)

	case key.Matches(msg, m.keys.Next):
		m.moveHighlight(1)

	case key.Matches(msg, m.keys.Prev):
		m.moveHighlight(-1)

	case key.Matches(msg, m.keys.Clear):
		m.highlighter.Leave(m.view.Chart)
	}
	return m, nil
}

// moveHighlight selects the legend entry delta steps from the hovered one
func (m *DashboardModel) moveHighlight(delta int) {
	c := m.view.Chart
	if c == nil || len(c.Legend) == 0 {
		return
	}

	n := len(c.Legend)
	idx := -1
	if hovered, ok := m.highlighter.Hovered(); ok {
		for i, e := range c.Legend {
			if e.Category == hovered {
				idx = i
				break
			}
		}
	}

	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = ((idx+delta)%n + n) % n
	}
	m.highlighter.Enter(c, c.Legend[idx].Category)
}

// Highlighted returns the highlighted status category, empty when idle
func (m *DashboardModel) Highlighted() string {
	h, _ := m.highlighter.Hovered()
	return h
}

// RefreshRate returns the active auto-refresh period
func (m *DashboardModel) RefreshRate() time.Duration {
	return m.refresh
}

// View draws the dashboard
func (m *DashboardModel) View() string {
	var b strings.Builder

	header := titleStyle.Render("opsdash · Dashboard")
	info := []string{
		"window " + m.uc.TimeWindow().String(),
		"refresh " + refreshLabel(m.refresh),
	}
	if !m.view.RefreshedAt.IsZero() {
		info = append(info, "updated "+m.view.RefreshedAt.Format("15:04:05"))
	}
	if m.poller.InFlight() {
		info = append(info, m.spin.View())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, header, statusLine(info...)))
	b.WriteString("\n")

	b.WriteString(renderCards(m.view.Cards))
	b.WriteString("\n")

	if m.view.Stats.State == model.PanelOK {
		blocks := make([]string, 0, len(m.view.Panels)+1)
		for _, p := range m.view.Panels {
			blocks = append(blocks, renderDetailPanel(p))
		}
		blocks = append(blocks, panelStyle.Render(
			panelTitleStyle.Render("Status Distribution")+"\n"+renderDonut(m.view.Chart, m.Highlighted())))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
	} else {
		b.WriteString(renderPanel(m.view.Stats))
	}
	b.WriteString("\n")

	b.WriteString(renderTable(m.view.Table, m.colors, -1))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderCards(c model.StatCards) string {
	card := func(label, value string) string {
		return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Volume", c.TotalVolume),
		card("Throughput (tx/s)", c.TxPerSec),
		card("Avg Latency", c.AvgLatency),
		card("Active Users", c.ActiveUsers),
	)
}

func renderDetailPanel(p model.DetailPanel) string {
	lines := []string{panelTitleStyle.Render(p.Title)}
	for _, item := range p.Items {
		lines = append(lines, fmt.Sprintf("%-16s %s", item.Label, cardValueStyle.Render(item.Value)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// barCells splits width cells among the segments by percentage. Each segment
// gets at least one cell while the width allows it. Rounding shortfall goes to
// the last segment; overflow is taken from the widest.
func barCells(segments []model.ArcSegment, width int) []int {
	cells := make([]int, len(segments))
	used := 0
	for i, seg := range segments {
		n := int(math.Round(seg.Percentage / 100 * float64(width)))
		if n < 1 && i < width {
			n = 1
		}
		cells[i] = n
		used += n
	}
	if len(cells) > 0 && used < width {
		cells[len(cells)-1] += width - used
		used = width
	}
	for used > width {
		widest := 0
		for i := range cells {
			if cells[i] > cells[widest] {
				widest = i
			}
		}
		cells[widest]--
		used--
	}
	return cells
}

// renderDonut draws the distribution as a proportional bar with a legend.
// Dimmed wedges and legend entries are drawn faint.
func renderDonut(c *model.DonutChart, hovered string) string {
	if c == nil {
		return placeholderStyle.Render(model.PlaceholderLoading)
	}
	if c.Empty {
		return placeholderStyle.Render(c.Placeholder)
	}

	var bar strings.Builder
	for i, cells := range barCells(c.Segments, chartBarWidth) {
		seg := c.Segments[i]
		if cells == 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(seg.Color))
		if seg.Opacity < 1 {
			style = style.Faint(true)
		}
		bar.WriteString(style.Render(strings.Repeat("█", cells)))
	}

	lines := []string{
		bar.String(),
		cardValueStyle.Render(fmt.Sprintf("%d%%", c.CenterPercent)) + " " + c.CenterLabel,
	}
	for _, e := range c.Legend {
		marker := "  "
		if e.Category == hovered {
			marker = "› "
		}
		label := lipgloss.NewStyle()
		if e.Bold {
			label = label.Bold(true)
		}
		if e.Opacity < 1 {
			label = label.Faint(true)
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("■")
		lines = append(lines, marker+swatch+" "+label.Render(e.Label))
	}
	return strings.Join(lines, "\n")
}
