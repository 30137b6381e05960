package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/usecase"
)

func sampleDashboardResponse() *model.DashboardResponse {
	size := int64(2048)
	return &model.DashboardResponse{
		TimeWindow: 15,
		Stats: &model.DashboardStats{
			Ingress: model.IngressStats{Submitted: 1, BadRequest: 0, TotalTx: 4},
			Egress: model.EgressStats{
				Complete:               3,
				TotalTx:                3,
				TxPerSec:               0.25,
				DataRateMbps:           1.5,
				AvgTransitTime:         "1.20 s",
				MaxTransitTime:         "2.00 s",
				P95TransitTime:         "1.90 s",
				P99TransitTime:         "1.98 s",
				TotalVolumeCompleteStr: "6.1 KB",
			},
			General: model.GeneralStats{ActiveUsers: 2},
		},
		TransactionsInWindow: []model.TransactionRecord{
			{TransactionID: "tx-1", Username: "alice", FileName: "a.bin", FileSize: &size, Status: "COMPLETE"},
		},
	}
}

func TestDashboardUseCase_Fetch(t *testing.T) {
	api := &mocks.DashboardAPIMock{
		GetDashboardStatsFunc: func(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
			return sampleDashboardResponse(), nil
		},
	}
	uc := usecase.NewDashboardUseCase(api, nil, 0)
	gt.Equal(t, uc.TimeWindow(), types.DefaultTimeWindow)

	gt.NoError(t, uc.SetTimeWindow(15))
	resp, err := uc.Fetch(context.Background())
	gt.NoError(t, err).Required()
	gt.V(t, resp).NotNil()

	calls := api.GetDashboardStatsCalls()
	gt.A(t, calls).Length(1)
	gt.Equal(t, calls[0].Window, types.TimeWindow(15))
}

func TestDashboardUseCase_SetTimeWindow(t *testing.T) {
	uc := usecase.NewDashboardUseCase(&mocks.DashboardAPIMock{}, nil, 5)

	err := uc.SetTimeWindow(0)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, model.ErrTagInvalidArgument))
	gt.Equal(t, uc.TimeWindow(), types.TimeWindow(5))
}

func TestDashboardUseCase_View(t *testing.T) {
	t.Run("successful response fills every panel", func(t *testing.T) {
		uc := usecase.NewDashboardUseCase(&mocks.DashboardAPIMock{}, nil, 60)
		view := uc.View(sampleDashboardResponse(), nil)

		gt.Equal(t, view.TimeWindow, types.TimeWindow(15))
		gt.Equal(t, view.Cards, model.StatCards{
			TotalVolume: "6.1 KB",
			TxPerSec:    "0.25",
			AvgLatency:  "1.20 s",
			ActiveUsers: "2",
		})
		gt.Equal(t, view.Stats.State, model.PanelOK)
		gt.A(t, view.Panels).Length(2)
		gt.Equal(t, view.Panels[1].Items[0].Value, "0.25 tx/s")
		gt.Equal(t, view.Panels[1].Items[3].Value, "-")

		gt.V(t, view.Chart).NotNil()
		gt.Equal(t, view.Chart.Total, 4)
		gt.Equal(t, view.Chart.CenterPercent, 75)
		gt.Equal(t, view.Chart.Segments[0].Category, "Complete")

		gt.Equal(t, view.Table.State, model.PanelOK)
		gt.False(t, view.Table.IncludeActions)
		gt.A(t, view.Table.Rows).Length(1)
	})

	t.Run("fetch error keeps the last stat cards", func(t *testing.T) {
		uc := usecase.NewDashboardUseCase(&mocks.DashboardAPIMock{}, nil, 60)
		first := uc.View(sampleDashboardResponse(), nil)

		view := uc.View(nil, goerr.New("connection refused"))
		gt.Equal(t, view.Cards, first.Cards)
		gt.Equal(t, view.Stats, model.Panel{State: model.PanelError, Message: model.ErrorLoadingStatistics})
		gt.Equal(t, view.Table.Message, model.ErrorLoadingTransactions)
		gt.V(t, view.Chart).Nil()
	})

	t.Run("missing stats object", func(t *testing.T) {
		uc := usecase.NewDashboardUseCase(&mocks.DashboardAPIMock{}, nil, 60)
		view := uc.View(&model.DashboardResponse{}, nil)

		gt.Equal(t, view.Cards.TotalVolume, "-")
		gt.Equal(t, view.Stats.Message, model.ErrorLoadingStatisticsData)
		gt.Equal(t, view.Table.Message, model.ErrorLoadingTransactionsData)
	})

	t.Run("empty window shows placeholders", func(t *testing.T) {
		uc := usecase.NewDashboardUseCase(&mocks.DashboardAPIMock{}, nil, 60)
		view := uc.View(&model.DashboardResponse{Stats: &model.DashboardStats{}}, nil)

		gt.True(t, view.Chart.Empty)
		gt.Equal(t, view.Chart.Placeholder, model.PlaceholderNoChartData)
		gt.Equal(t, view.Table.State, model.PanelNoData)
		gt.Equal(t, view.Table.Message, model.PlaceholderNoTransactions)
		gt.Equal(t, view.Panels[0].Items[0].Value, "-")
	})
}

func TestDashboardUseCase_LoadingView(t *testing.T) {
	uc := usecase.NewDashboardUseCase(&mocks.DashboardAPIMock{}, nil, 30)
	view := uc.LoadingView()

	gt.Equal(t, view.TimeWindow, types.TimeWindow(30))
	gt.Equal(t, view.Stats.State, model.PanelLoading)
	gt.Equal(t, view.Table.Message, model.PlaceholderLoading)
	gt.Equal(t, view.Cards.ActiveUsers, "-")
}
