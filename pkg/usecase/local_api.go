package usecase

import (
	"context"

	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

// LocalAPI serves the dashboard views from an in-process backend instead of
// the HTTP API. The server-rendered pages and the standalone TUI use it.
type LocalAPI struct {
	backend Backend
}

// NewLocalAPI creates a DashboardAPI backed by backend
func NewLocalAPI(backend Backend) *LocalAPI {
	return &LocalAPI{backend: backend}
}

// GetDashboardStats implements interfaces.DashboardAPI
func (a *LocalAPI) GetDashboardStats(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
	return a.backend.DashboardStats(ctx, window)
}

// GetTransactionsFeed implements interfaces.DashboardAPI
func (a *LocalAPI) GetTransactionsFeed(ctx context.Context, numItems int) (*model.FeedResponse, error) {
	return a.backend.Feed(ctx, numItems)
}

// GetUsernames implements interfaces.DashboardAPI
func (a *LocalAPI) GetUsernames(ctx context.Context) ([]string, error) {
	return a.backend.Usernames(ctx)
}

var _ interfaces.DashboardAPI = (*LocalAPI)(nil)
