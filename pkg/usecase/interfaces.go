package usecase

import (
	"context"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/table"
)

// Backend defines the interface for serving the dashboard API
type Backend interface {
	// DashboardStats aggregates transactions received within window
	DashboardStats(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error)

	// Feed returns the newest numItems transactions
	Feed(ctx context.Context, numItems int) (*model.FeedResponse, error)

	// Usernames returns the distinct usernames
	Usernames(ctx context.Context) ([]string, error)

	// DBStatus describes the transaction source
	DBStatus(ctx context.Context) (*model.DBStatus, error)

	// DBTableStats returns record counts per collection
	DBTableStats(ctx context.Context) (*model.DBTableStats, error)

	// Report builds a downloadable report
	Report(ctx context.Context, req model.ReportRequest) (*model.Report, error)

	// Clear deletes every transaction
	Clear(ctx context.Context) *model.ClearResult

	// TransactionCount returns the number of stored transactions
	TransactionCount(ctx context.Context) (int, error)
}

// Dashboard defines the interface for the dashboard view
type Dashboard interface {
	TimeWindow() types.TimeWindow
	SetTimeWindow(w types.TimeWindow) error
	Fetch(ctx context.Context) (*model.DashboardResponse, error)
	View(resp *model.DashboardResponse, fetchErr error) *model.DashboardView
	LoadingView() *model.DashboardView
}

// Feed defines the interface for the live transaction feed
type Feed interface {
	NumItems() int
	SetNumItems(n int) error
	Fetch(ctx context.Context) (*model.FeedResponse, error)
	Apply(resp *model.FeedResponse, fetchErr error)
	FetchUsernames(ctx context.Context) ([]string, error)
	SetUsernames(names []string) bool
	LoadUsernames(ctx context.Context) error
	LoadInitial(ctx context.Context) error
	Filter() table.Filter
	SetFilter(f table.Filter)
	Usernames() []string
	Records() []model.TransactionRecord
	View() *model.FeedView
}

var (
	_ Backend   = (*BackendUseCase)(nil)
	_ Dashboard = (*DashboardUseCase)(nil)
	_ Feed      = (*FeedUseCase)(nil)
)
