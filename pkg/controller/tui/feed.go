package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/secmon-lab/opsdash/pkg/service/clipboard"
	"github.com/secmon-lab/opsdash/pkg/service/table"
	"github.com/secmon-lab/opsdash/pkg/usecase"
)

// FeedSizes are the feed sizes offered by the size key
var FeedSizes = []int{10, 25, 50, 100, 200}

// FeedMsg carries the outcome of one feed fetch
type FeedMsg struct {
	Response *model.FeedResponse
	Err      error
}

// UsernamesMsg carries freshly fetched username choices
type UsernamesMsg struct {
	Usernames []string
	Err       error
}

type feedKeys struct {
	commonKeys
	Up     key.Binding
	Down   key.Binding
	Copy   key.Binding
	User   key.Binding
	Status key.Binding
	Size   key.Binding
	Clear  key.Binding
}

func newFeedKeys() feedKeys {
	return feedKeys{
		commonKeys: newCommonKeys(),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "copy row"),
		),
		User: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "user filter"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status filter"),
		),
		Size: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "feed size"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
	}
}

func (k feedKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.User, k.Status, k.Refresh, k.Help, k.Quit}
}

func (k feedKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Copy},
		{k.User, k.Status, k.Clear, k.Size},
		{k.Refresh, k.Reload, k.Help, k.Quit},
	}
}

// FeedModel is the terminal live feed with client-side filters and row copy
type FeedModel struct {
	ctx       context.Context
	uc        *usecase.FeedUseCase
	poller    *usecase.Poller[*model.FeedResponse]
	colors    *chart.ColorResolver
	clipboard interfaces.ClipboardWriter
	keys      feedKeys
	help      help.Model
	spin      spinner.Model
	send      func(tea.Msg)

	view    *model.FeedView
	cursor  int
	refresh time.Duration
	flash   string
	flashID int
}

// FeedOption configures a FeedModel
type FeedOption func(*FeedModel)

// WithFeedColors sets the status badge colors
func WithFeedColors(c *chart.ColorResolver) FeedOption {
	return func(m *FeedModel) {
		m.colors = c
	}
}

// WithFeedRefresh sets the initial auto-refresh period
func WithFeedRefresh(d time.Duration) FeedOption {
	return func(m *FeedModel) {
		m.refresh = d
	}
}

// WithClipboard replaces the clipboard rows are copied to
func WithClipboard(w interfaces.ClipboardWriter) FeedOption {
	return func(m *FeedModel) {
		m.clipboard = w
	}
}

// NewFeedModel creates the live feed model
func NewFeedModel(ctx context.Context, uc *usecase.FeedUseCase, opts ...FeedOption) *FeedModel {
	m := &FeedModel{
		ctx:     ctx,
		uc:      uc,
		colors:  chart.NewColorResolver(),
		keys:    newFeedKeys(),
		help:    help.New(),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		refresh: DefaultRefreshRate,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clipboard == nil {
		m.clipboard = clipboard.New()
	}

	m.view = uc.View()
	m.poller = usecase.NewPoller(uc.Fetch,
		func(resp *model.FeedResponse) { m.notify(FeedMsg{Response: resp}) },
		func(err error) { m.notify(FeedMsg{Err: err}) },
	)
	return m
}

func (m *FeedModel) notify(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

// Run starts polling and blocks until the user quits or ctx is cancelled
func (m *FeedModel) Run(opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(m.ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	m.send = p.Send

	m.poller.Start(m.ctx, m.refresh)
	defer m.poller.Stop()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return goerr.Wrap(err, "feed UI stopped with error")
	}
	return nil
}

// Init fetches the first page and the username choices
func (m *FeedModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.reload, m.loadUsernames)
}

func (m *FeedModel) reload() tea.Msg {
	m.poller.Trigger(m.ctx)
	return nil
}

// loadUsernames runs outside the event loop, so it only fetches. The choices
// and the filter change when Update applies the message.
func (m *FeedModel) loadUsernames() tea.Msg {
	names, err := m.uc.FetchUsernames(m.ctx)
	return UsernamesMsg{Usernames: names, Err: err}
}

// Update handles fetch results and key presses
func (m *FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case FeedMsg:
		m.uc.Apply(msg.Response, msg.Err)
		m.refreshView()
		return m, nil

	case UsernamesMsg:
		if msg.Err != nil {
			ctxlog.From(m.ctx).Warn("failed to load usernames", "error", msg.Err)
			return m, nil
		}
		if m.uc.SetUsernames(msg.Usernames) {
			m.cursor = 0
		}
		m.refreshView()
		return m, nil

	case clearFlashMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
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

func (m *FeedModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Table.Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()

	case key.Matches(msg, m.keys.User):
		f := m.uc.Filter()
		f.Username = cycle(append([]string{""}, m.uc.Usernames()...), f.Username)
		m.setFilter(f)

	case key.Matches(msg, m.keys.Status):
		statuses := []string{""}
		for _, s := range types.AllStatuses() {
			statuses = append(statuses, s.String())
		}
		f := m.uc.Filter()
		f.Status = cycle(statuses, f.Status)
		m.setFilter(f)

	case key.Matches(msg, m.keys.Clear):
		m.setFilter(table.Filter{})

	case key.Matches(msg, m.keys.Size):
		sizes := make([]string, 0, len(FeedSizes))
		for _, n := range FeedSizes {
			sizes = append(sizes, strconv.Itoa(n))
		}
		next, _ := strconv.Atoi(cycle(sizes, strconv.Itoa(m.uc.NumItems())))
		if err := m.uc.SetNumItems(next); err != nil {
			ctxlog.From(m.ctx).Warn("failed to change feed size", "error", err)
			return m, nil
		}
		m.poller.Refresh(m.ctx)

	case key.Matches(msg, m.keys.Refresh):
		m.refresh = nextRefreshRate(m.refresh)
		m.poller.Start(m.ctx, m.refresh)
		if m.refresh > 0 {
			m.poller.Trigger(m.ctx)
		}

	case key.Matches(msg, m.keys.Reload):
		m.poller.Trigger(m.ctx)
		return m, m.loadUsernames
	}
	return m, nil
}

func (m *FeedModel) setFilter(f table.Filter) {
	m.uc.SetFilter(f)
	m.cursor = 0
	m.refreshView()
}

func (m *FeedModel) refreshView() {
	m.view = m.uc.View()
	if n := len(m.view.Table.Rows); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// copySelected puts the selected record on the clipboard and flashes a
// confirmation
func (m *FeedModel) copySelected() tea.Cmd {
	records := m.uc.Records()
	if m.view.Table.State != model.PanelOK || m.cursor >= len(records) {
		return nil
	}
	rec := records[m.cursor]

	m.flashID++
	if err := m.clipboard.WriteText(table.ExportText(&rec)); err != nil {
		ctxlog.From(m.ctx).Error("copy failed", "error", err, "transaction_id", rec.TransactionID)
		m.flash = "copy failed"
	} else {
		m.flash = "✓ copied " + rec.TransactionID
	}
	return clearFlashAfter(m.flashID)
}

// cycle returns the option following current, wrapping around
func cycle(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// Cursor returns the selected row index
func (m *FeedModel) Cursor() int {
	return m.cursor
}

// Flash returns the copy confirmation currently shown
func (m *FeedModel) Flash() string {
	return m.flash
}

// View draws the live feed
func (m *FeedModel) View() string {
	var b strings.Builder

	info := []string{
		"items " + strconv.Itoa(m.view.NumItems),
		"refresh " + refreshLabel(m.refresh),
	}
	if !m.view.RefreshedAt.IsZero() {
		info = append(info, "updated "+m.view.RefreshedAt.Format("15:04:05"))
	}
	if m.poller.InFlight() {
		info = append(info, m.spin.View())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render("opsdash · Live Transactions"), statusLine(info...)))
	b.WriteString("\n")

	b.WriteString(statusLine(
		"user: "+orAll(m.view.UsernameFilter),
		"status: "+orAll(statusLabel(m.view.StatusFilter)),
		fmt.Sprintf("showing %d of %d", len(m.view.Table.Rows), m.view.Total),
	))
	b.WriteString("\n")

	b.WriteString(renderTable(m.view.Table, m.colors, m.cursor))
	b.WriteString("\n")
	if m.flash != "" {
		b.WriteString(flashStyle.Render(m.flash))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func statusLabel(s string) string {
	if s == "" {
		return ""
	}
	return types.Status(s).DisplayName()
}
