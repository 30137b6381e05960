package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/secmon-lab/opsdash/pkg/service/stats"
	"github.com/secmon-lab/opsdash/pkg/service/table"
)

// DashboardUseCase builds the dashboard view from the stats API
type DashboardUseCase struct {
	api      interfaces.DashboardAPI
	renderer *chart.Renderer
	now      func() time.Time

	mu     sync.Mutex
	window types.TimeWindow
	cards  *model.StatCards
}

// NewDashboardUseCase creates a new DashboardUseCase instance
func NewDashboardUseCase(api interfaces.DashboardAPI, renderer *chart.Renderer, window types.TimeWindow) *DashboardUseCase {
	if renderer == nil {
		renderer = chart.NewRenderer(nil)
	}
	if window <= 0 {
		window = types.DefaultTimeWindow
	}
	return &DashboardUseCase{
		api:      api,
		renderer: renderer,
		now:      time.Now,
		window:   window,
	}
}

// TimeWindow returns the selected aggregation window
func (uc *DashboardUseCase) TimeWindow() types.TimeWindow {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.window
}

// SetTimeWindow changes the aggregation window used by the next fetch
func (uc *DashboardUseCase) SetTimeWindow(w types.TimeWindow) error {
	if err := w.Validate(); err != nil {
		return goerr.Wrap(err, "invalid time window", goerr.T(model.ErrTagInvalidArgument))
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.window = w
	return nil
}

// Fetch retrieves the statistics of the selected window
func (uc *DashboardUseCase) Fetch(ctx context.Context) (*model.DashboardResponse, error) {
	window := uc.TimeWindow()
	resp, err := uc.api.GetDashboardStats(ctx, window)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch dashboard stats", goerr.V("time_window", window.Minutes()))
	}
	return resp, nil
}

// View turns a fetch outcome into the dashboard view. When the fetch failed
// the panels show error placeholders and the stat cards keep their last
// values.
func (uc *DashboardUseCase) View(resp *model.DashboardResponse, fetchErr error) *model.DashboardView {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	view := &model.DashboardView{
		TimeWindow:  uc.window,
		Cards:       placeholderCards(),
		RefreshedAt: uc.now(),
	}
	if uc.cards != nil {
		view.Cards = *uc.cards
	}

	switch {
	case fetchErr != nil:
		view.Stats = model.Panel{State: model.PanelError, Message: model.ErrorLoadingStatistics}
		view.Table = &model.TransactionTable{
			Panel:   model.Panel{State: model.PanelError, Message: model.ErrorLoadingTransactions},
			Columns: model.TransactionColumns,
		}
		return view

	case resp == nil || resp.Stats == nil:
		view.Stats = model.Panel{State: model.PanelError, Message: model.ErrorLoadingStatisticsData}
		view.Table = &model.TransactionTable{
			Panel:   model.Panel{State: model.PanelError, Message: model.ErrorLoadingTransactionsData},
			Columns: model.TransactionColumns,
		}
		return view
	}

	if resp.TimeWindow > 0 {
		view.TimeWindow = types.TimeWindow(resp.TimeWindow)
	}

	s := resp.Stats
	view.Cards = model.StatCards{
		TotalVolume: orDash(s.Egress.TotalVolumeCompleteStr),
		TxPerSec:    formatNumber(s.Egress.TxPerSec),
		AvgLatency:  orDash(s.Egress.AvgTransitTime),
		ActiveUsers: strconv.Itoa(s.General.ActiveUsers),
	}
	cards := view.Cards
	uc.cards = &cards

	view.Stats = model.Panel{State: model.PanelOK}
	view.Panels = detailPanels(s)
	view.Chart = uc.renderer.Render(stats.StatusCounts(s))
	view.Table = table.Render(resp.TransactionsInWindow, false)
	return view
}

// LoadingView is shown before the first fetch completes
func (uc *DashboardUseCase) LoadingView() *model.DashboardView {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return &model.DashboardView{
		TimeWindow: uc.window,
		Cards:      placeholderCards(),
		Stats:      model.Panel{State: model.PanelLoading, Message: model.PlaceholderLoading},
		Table: &model.TransactionTable{
			Panel:   model.Panel{State: model.PanelLoading, Message: model.PlaceholderLoading},
			Columns: model.TransactionColumns,
		},
	}
}

func detailPanels(s *model.DashboardStats) []model.DetailPanel {
	var peak float64
	if s.Egress.PeakTxPerSec != nil {
		peak = *s.Egress.PeakTxPerSec
	}

	return []model.DetailPanel{
		{
			Title: "Latency Metrics",
			Items: []model.StatItem{
				{Label: "Average", Value: orDash(s.Egress.AvgTransitTime)},
				{Label: "Maximum", Value: orDash(s.Egress.MaxTransitTime)},
				{Label: "P95", Value: orDash(s.Egress.P95TransitTime)},
				{Label: "P99", Value: orDash(s.Egress.P99TransitTime)},
			},
		},
		{
			Title: "Performance",
			Items: []model.StatItem{
				{Label: "Throughput", Value: withUnit(s.Egress.TxPerSec, "tx/s")},
				{Label: "Data Rate", Value: withUnit(s.Egress.DataRateMbps, "Mbps")},
				{Label: "Total Vol", Value: orDash(s.Egress.TotalVolumeCompleteStr)},
				{Label: "Peak Rate", Value: withUnit(peak, "tx/s")},
			},
		},
	}
}

func placeholderCards() model.StatCards {
	return model.StatCards{
		TotalVolume: stats.NoValue,
		TxPerSec:    stats.NoValue,
		AvgLatency:  stats.NoValue,
		ActiveUsers: stats.NoValue,
	}
}

func orDash(s string) string {
	if s == "" {
		return stats.NoValue
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// withUnit renders a non-zero value with its unit, "-" otherwise
func withUnit(v float64, unit string) string {
	if v == 0 {
		return stats.NoValue
	}
	return formatNumber(v) + " " + unit
}
