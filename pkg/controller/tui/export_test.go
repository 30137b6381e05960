package tui

import tea "github.com/charmbracelet/bubbletea"

// SetSender replaces the program's Send for tests
func (m *DashboardModel) SetSender(send func(tea.Msg)) { m.send = send }

// StopPolling stops the model's poller
func (m *DashboardModel) StopPolling() { m.poller.Stop() }

// SetSender replaces the program's Send for tests
func (m *FeedModel) SetSender(send func(tea.Msg)) { m.send = send }

// StopPolling stops the model's poller
func (m *FeedModel) StopPolling() { m.poller.Stop() }

// BarCells exposes the bar cell split for tests
var BarCells = barCells

// LoadUsernames runs the username fetch command
func (m *FeedModel) LoadUsernames() tea.Msg { return m.loadUsernames() }
