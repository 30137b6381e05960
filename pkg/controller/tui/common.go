package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
)

// RefreshRates are the auto-refresh periods offered by the refresh key.
// Zero turns polling off.
var RefreshRates = []time.Duration{0, 5 * time.Second, 10 * time.Second, 30 * time.Second, 60 * time.Second}

// DefaultRefreshRate is used when no rate is configured
const DefaultRefreshRate = 5 * time.Second

// copyFlashDuration is how long the copy confirmation stays visible
const copyFlashDuration = time.Second

// nextRefreshRate returns the entry following d in RefreshRates, wrapping
// around. A rate that is not listed moves to the first entry.
func nextRefreshRate(d time.Duration) time.Duration {
	for i, r := range RefreshRates {
		if r == d {
			return RefreshRates[(i+1)%len(RefreshRates)]
		}
	}
	return RefreshRates[0]
}

func refreshLabel(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}

var (
	accentColor = lipgloss.Color("#22D3EE")
	mutedColor  = lipgloss.Color("#94A3B8")
	errorColor  = lipgloss.Color("#F87171")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1).
			Width(22)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true).
				Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			Padding(0, 1)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedCellStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Reverse(true)

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ADE80")).
			Bold(true)
)

// commonKeys are shared by the dashboard and the feed
type commonKeys struct {
	Refresh key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newCommonKeys() commonKeys {
	return commonKeys{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh rate"),
		),
		Reload: key.NewBinding(
			key.WithKeys("f5", "ctrl+r"),
			key.WithHelp("ctrl+r", "reload now"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// clearFlashMsg removes the copy confirmation with the given id
type clearFlashMsg struct {
	id int
}

func clearFlashAfter(id int) tea.Cmd {
	return tea.Tick(copyFlashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg{id: id}
	})
}

// renderPanel draws a placeholder for a panel that is not ok
func renderPanel(p model.Panel) string {
	if p.State == model.PanelError {
		return errorStyle.Render(p.Message)
	}
	return placeholderStyle.Render(p.Message)
}

// renderTable draws a transactions table. cursor selects a row; a negative
// cursor selects none.
func renderTable(t *model.TransactionTable, colors *chart.ColorResolver, cursor int) string {
	if t == nil {
		return placeholderStyle.Render(model.PlaceholderLoading)
	}
	if t.State != model.PanelOK {
		return renderPanel(t.Panel)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, []string{r.Username, r.FileName, r.Size, r.IngressTime, r.EgressTime, r.Transit, r.Status})
	}
	statusCol := len(t.Columns) - 1

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			style := cellStyle
			if row == cursor {
				style = selectedCellStyle
			}
			if col == statusCol && row >= 0 && row < len(t.Rows) {
				style = style.Foreground(lipgloss.Color(colors.Resolve(t.Rows[row].Status)))
			}
			return style
		})

	return tbl.String()
}

// statusLine joins the non-empty parts of a footer line
func statusLine(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return infoStyle.Render(strings.Join(kept, "  ·  "))
}
