package interfaces

//go:generate moq -out mocks/api_mock.go -pkg mocks . DashboardAPI ClipboardWriter

import (
	"context"

	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
)

// DashboardAPI is the backend JSON API polled by the dashboard views
type DashboardAPI interface {
	GetDashboardStats(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error)
	GetTransactionsFeed(ctx context.Context, numItems int) (*model.FeedResponse, error)
	GetUsernames(ctx context.Context) ([]string, error)
}

// ClipboardWriter puts text on a clipboard
type ClipboardWriter interface {
	WriteText(text string) error
}
