package tui_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/controller/tui"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/usecase"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func dashboardResponse(complete, submitted int) *model.DashboardResponse {
	size := int64(4096)
	return &model.DashboardResponse{
		TimeWindow: 60,
		Stats: &model.DashboardStats{
			Ingress: model.IngressStats{Submitted: submitted, TotalTx: complete + submitted},
			Egress: model.EgressStats{
				Complete:               complete,
				TotalTx:                complete,
				TxPerSec:               0.5,
				AvgTransitTime:         "1.2 s",
				MaxTransitTime:         "2.0 s",
				P95TransitTime:         "1.9 s",
				P99TransitTime:         "2.0 s",
				TotalVolumeCompleteStr: "12.3 KB",
			},
			General: model.GeneralStats{ActiveUsers: 2},
		},
		TransactionsInWindow: []model.TransactionRecord{
			{TransactionID: "tx-1", Username: "alice", FileName: "a.bin", FileSize: &size, Status: "COMPLETE", TransitTime: "1.200s"},
		},
	}
}

func waitMsg(t *testing.T, msgs <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-msgs:
		return msg
	case <-time.After(3 * time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func newDashboard(t *testing.T, api *mocks.DashboardAPIMock) (*tui.DashboardModel, *usecase.DashboardUseCase) {
	t.Helper()
	uc := usecase.NewDashboardUseCase(api, nil, types.DefaultTimeWindow)
	m := tui.NewDashboardModel(context.Background(), uc)
	t.Cleanup(m.StopPolling)
	return m, uc
}

func TestDashboardModel_View(t *testing.T) {
	m, _ := newDashboard(t, &mocks.DashboardAPIMock{})

	t.Run("shows loading before the first result", func(t *testing.T) {
		gt.S(t, m.View()).Contains(model.PlaceholderLoading)
	})

	t.Run("draws cards, chart and table from a result", func(t *testing.T) {
		m.Update(tui.DashboardMsg{Response: dashboardResponse(3, 1)})
		view := m.View()
		gt.S(t, view).Contains("12.3 KB")
		gt.S(t, view).Contains("Status Distribution")
		gt.S(t, view).Contains("75% Complete")
		gt.S(t, view).Contains("Complete: 3 (75%)")
		gt.S(t, view).Contains("Submitted: 1 (25%)")
		gt.S(t, view).Contains("alice")
	})

	t.Run("a failed fetch keeps the cards and shows error placeholders", func(t *testing.T) {
		m.Update(tui.DashboardMsg{Err: errors.New("connection refused")})
		view := m.View()
		gt.S(t, view).Contains(model.ErrorLoadingStatistics)
		gt.S(t, view).Contains(model.ErrorLoadingTransactions)
		gt.S(t, view).Contains("12.3 KB")
	})

	t.Run("an empty window shows the chart placeholder", func(t *testing.T) {
		m.Update(tui.DashboardMsg{Response: dashboardResponse(0, 0)})
		gt.S(t, m.View()).Contains(model.PlaceholderNoChartData)
	})
}

func TestBarCells(t *testing.T) {
	sum := func(cells []int) int {
		total := 0
		for _, n := range cells {
			total += n
		}
		return total
	}

	t.Run("small wedges keep one cell without widening the bar", func(t *testing.T) {
		cells := tui.BarCells([]model.ArcSegment{
			{Percentage: 49.5}, {Percentage: 49.5}, {Percentage: 0.33}, {Percentage: 0.33}, {Percentage: 0.33},
		}, 40)
		gt.Equal(t, sum(cells), 40)
		gt.Equal(t, cells[2], 1)
		gt.Equal(t, cells[3], 1)
		gt.Equal(t, cells[4], 1)
		gt.True(t, cells[0] >= 18)
		gt.True(t, cells[1] >= 18)
	})

	t.Run("rounding shortfall goes to the last wedge", func(t *testing.T) {
		cells := tui.BarCells([]model.ArcSegment{
			{Percentage: 33.3}, {Percentage: 33.3}, {Percentage: 33.4},
		}, 40)
		gt.Equal(t, cells, []int{13, 13, 14})
	})

	t.Run("more wedges than cells", func(t *testing.T) {
		cells := tui.BarCells([]model.ArcSegment{
			{Percentage: 25}, {Percentage: 25}, {Percentage: 25}, {Percentage: 25},
		}, 2)
		gt.Equal(t, sum(cells), 2)
	})
}

func TestDashboardModel_ChartWidth(t *testing.T) {
	m, _ := newDashboard(t, &mocks.DashboardAPIMock{})
	resp := dashboardResponse(150, 150)
	resp.Stats.Ingress.BadRequest = 1
	resp.Stats.Ingress.CDUnavailable = 1
	resp.Stats.Egress.EPUnavailable = 1
	m.Update(tui.DashboardMsg{Response: resp})

	gt.Equal(t, strings.Count(m.View(), "█"), 40)
}

func TestDashboardModel_Highlight(t *testing.T) {
	m, _ := newDashboard(t, &mocks.DashboardAPIMock{})
	m.Update(tui.DashboardMsg{Response: dashboardResponse(3, 1)})

	t.Run("moves through the legend in order", func(t *testing.T) {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
		gt.Equal(t, m.Highlighted(), "Complete")
		gt.S(t, m.View()).Contains("› ")

		m.Update(tea.KeyMsg{Type: tea.KeyRight})
		gt.Equal(t, m.Highlighted(), "Submitted")

		m.Update(tea.KeyMsg{Type: tea.KeyRight})
		gt.Equal(t, m.Highlighted(), "Complete")

		m.Update(tea.KeyMsg{Type: tea.KeyLeft})
		gt.Equal(t, m.Highlighted(), "Submitted")
	})

	t.Run("survives a re-render", func(t *testing.T) {
		m.Update(tui.DashboardMsg{Response: dashboardResponse(5, 2)})
		gt.Equal(t, m.Highlighted(), "Submitted")
	})

	t.Run("falls back to idle when the category disappears", func(t *testing.T) {
		m.Update(tui.DashboardMsg{Response: dashboardResponse(5, 0)})
		gt.Equal(t, m.Highlighted(), "")
	})

	t.Run("escape clears the highlight", func(t *testing.T) {
		m.Update(tea.KeyMsg{Type: tea.KeyLeft})
		gt.Equal(t, m.Highlighted(), "Complete")
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		gt.Equal(t, m.Highlighted(), "")
	})
}

func TestDashboardModel_Keys(t *testing.T) {
	t.Run("changing the window fetches again with the new window", func(t *testing.T) {
		api := &mocks.DashboardAPIMock{
			GetDashboardStatsFunc: func(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
				return dashboardResponse(1, 0), nil
			},
		}
		m, uc := newDashboard(t, api)
		msgs := make(chan tea.Msg, 4)
		m.SetSender(func(msg tea.Msg) { msgs <- msg })

		m.Update(runeKey("w"))
		gt.Equal(t, uc.TimeWindow(), types.TimeWindow(360))

		msg := waitMsg(t, msgs)
		result, ok := msg.(tui.DashboardMsg)
		gt.True(t, ok)
		gt.NoError(t, result.Err)

		calls := api.GetDashboardStatsCalls()
		gt.A(t, calls).Length(1)
		gt.Equal(t, calls[0].Window, types.TimeWindow(360))
	})

	t.Run("rapid window changes keep one request in flight", func(t *testing.T) {
		release := make(chan struct{})
		var mu sync.Mutex
		running, peak := 0, 0
		api := &mocks.DashboardAPIMock{
			GetDashboardStatsFunc: func(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
				mu.Lock()
				running++
				if running > peak {
					peak = running
				}
				mu.Unlock()
				defer func() {
					mu.Lock()
					running--
					mu.Unlock()
				}()
				if window == 360 {
					<-release
				}
				return dashboardResponse(1, 0), nil
			},
		}
		m, uc := newDashboard(t, api)
		msgs := make(chan tea.Msg, 8)
		m.SetSender(func(msg tea.Msg) { msgs <- msg })

		m.Update(runeKey("w"))
		deadline := time.Now().Add(time.Second)
		for len(api.GetDashboardStatsCalls()) == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		gt.A(t, api.GetDashboardStatsCalls()).Length(1)

		m.Update(runeKey("w"))
		m.Update(runeKey("w"))
		gt.Equal(t, uc.TimeWindow(), types.TimeWindow(5))

		close(release)
		waitMsg(t, msgs)
		waitMsg(t, msgs)

		calls := api.GetDashboardStatsCalls()
		gt.A(t, calls).Length(2)
		gt.Equal(t, calls[0].Window, types.TimeWindow(360))
		gt.Equal(t, calls[1].Window, types.TimeWindow(5))
		mu.Lock()
		defer mu.Unlock()
		gt.Equal(t, peak, 1)
	})

	t.Run("a fetch error is delivered as a message", func(t *testing.T) {
		api := &mocks.DashboardAPIMock{
			GetDashboardStatsFunc: func(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
				return nil, errors.New("boom")
			},
		}
		m, _ := newDashboard(t, api)
		msgs := make(chan tea.Msg, 4)
		m.SetSender(func(msg tea.Msg) { msgs <- msg })

		m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
		result, ok := waitMsg(t, msgs).(tui.DashboardMsg)
		gt.True(t, ok)
		gt.Error(t, result.Err)

		m.Update(result)
		gt.S(t, m.View()).Contains(model.ErrorLoadingStatistics)
	})

	t.Run("refresh key cycles the rate", func(t *testing.T) {
		api := &mocks.DashboardAPIMock{
			GetDashboardStatsFunc: func(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
				return dashboardResponse(1, 0), nil
			},
		}
		m, _ := newDashboard(t, api)
		m.SetSender(func(tea.Msg) {})
		gt.Equal(t, m.RefreshRate(), tui.DefaultRefreshRate)

		m.Update(runeKey("r"))
		gt.Equal(t, m.RefreshRate(), 10*time.Second)
		m.Update(runeKey("r"))
		m.Update(runeKey("r"))
		m.Update(runeKey("r"))
		gt.Equal(t, m.RefreshRate(), time.Duration(0))
		gt.S(t, m.View()).Contains("refresh off")
	})

	t.Run("quit key quits", func(t *testing.T) {
		m, _ := newDashboard(t, &mocks.DashboardAPIMock{})
		_, cmd := m.Update(runeKey("q"))
		gt.V(t, cmd).NotNil()
		_, ok := cmd().(tea.QuitMsg)
		gt.True(t, ok)
	})
}
