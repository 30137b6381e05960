package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/table"
	"golang.org/x/sync/errgroup"
)

// DefaultFeedSize is the number of transactions requested by default
const DefaultFeedSize = 50

// FeedUseCase keeps the live transaction list and its filter
type FeedUseCase struct {
	api interfaces.DashboardAPI
	now func() time.Time

	mu          sync.Mutex
	numItems    int
	records     []model.TransactionRecord
	usernames   []string
	filter      table.Filter
	loaded      bool
	failed      bool
	refreshedAt time.Time
}

// NewFeedUseCase creates a new FeedUseCase instance
func NewFeedUseCase(api interfaces.DashboardAPI, numItems int) *FeedUseCase {
	if numItems <= 0 {
		numItems = DefaultFeedSize
	}
	return &FeedUseCase{
		api:      api,
		now:      time.Now,
		numItems: numItems,
	}
}

// NumItems returns the requested feed size
func (uc *FeedUseCase) NumItems() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.numItems
}

// SetNumItems changes the feed size used by the next fetch
func (uc *FeedUseCase) SetNumItems(n int) error {
	if n <= 0 {
		return goerr.New("number of items must be positive",
			goerr.V("num_items", n),
			goerr.T(model.ErrTagInvalidArgument))
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.numItems = n
	return nil
}

// Fetch retrieves the newest transactions
func (uc *FeedUseCase) Fetch(ctx context.Context) (*model.FeedResponse, error) {
	n := uc.NumItems()
	resp, err := uc.api.GetTransactionsFeed(ctx, n)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch transactions feed", goerr.V("num_items", n))
	}
	return resp, nil
}

// Apply stores a fetch outcome. A successful response replaces the list and
// adopts the feed size echoed by the server.
func (uc *FeedUseCase) Apply(resp *model.FeedResponse, fetchErr error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if fetchErr != nil || resp == nil {
		uc.failed = true
		return
	}

	uc.failed = false
	uc.loaded = true
	uc.records = resp.Transactions
	if resp.NumItems > 0 {
		uc.numItems = resp.NumItems
	}
	uc.refreshedAt = uc.now()
}

// FetchUsernames retrieves the username choices without storing them
func (uc *FeedUseCase) FetchUsernames(ctx context.Context) ([]string, error) {
	names, err := uc.api.GetUsernames(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load usernames")
	}
	return names, nil
}

// SetUsernames replaces the username choices. The selected username is kept
// only if it is still listed. It reports whether the filter was cleared.
func (uc *FeedUseCase) SetUsernames(names []string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.usernames = names
	if uc.filter.Username != "" && !slices.Contains(names, uc.filter.Username) {
		uc.filter.Username = ""
		return true
	}
	return false
}

// LoadUsernames fetches and stores the username choices
func (uc *FeedUseCase) LoadUsernames(ctx context.Context) error {
	names, err := uc.FetchUsernames(ctx)
	if err != nil {
		return err
	}
	uc.SetUsernames(names)
	return nil
}

// LoadInitial fetches the feed and the usernames concurrently
func (uc *FeedUseCase) LoadInitial(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		resp, err := uc.Fetch(egCtx)
		uc.Apply(resp, err)
		return err
	})
	eg.Go(func() error {
		if err := uc.LoadUsernames(egCtx); err != nil {
			// Username choices are optional for the feed
			ctxlog.From(ctx).Warn("failed to load usernames", "error", err)
		}
		return nil
	})

	return eg.Wait()
}

// Filter returns the active filter
func (uc *FeedUseCase) Filter() table.Filter {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.filter
}

// SetFilter replaces the filter. The stored list is filtered again on the
// next View without fetching.
func (uc *FeedUseCase) SetFilter(f table.Filter) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.filter = f
	uc.failed = false
}

// Usernames returns the username choices
func (uc *FeedUseCase) Usernames() []string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return slices.Clone(uc.usernames)
}

// Records returns the stored transactions matching the filter
func (uc *FeedUseCase) Records() []model.TransactionRecord {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.filter.Apply(uc.records)
}

// View renders the stored list through the filter
func (uc *FeedUseCase) View() *model.FeedView {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	view := &model.FeedView{
		NumItems:       uc.numItems,
		Usernames:      slices.Clone(uc.usernames),
		UsernameFilter: uc.filter.Username,
		StatusFilter:   uc.filter.Status,
		Total:          len(uc.records),
		RefreshedAt:    uc.refreshedAt,
	}

	if uc.failed {
		view.Table = &model.TransactionTable{
			Panel:          model.Panel{State: model.PanelError, Message: model.ErrorLoadingFeed},
			Columns:        model.TransactionColumns,
			IncludeActions: true,
		}
		return view
	}
	if !uc.loaded {
		view.Table = &model.TransactionTable{
			Panel:          model.Panel{State: model.PanelLoading, Message: model.PlaceholderLoading},
			Columns:        model.TransactionColumns,
			IncludeActions: true,
		}
		return view
	}

	view.Table = uc.filter.Table(uc.records)
	return view
}
