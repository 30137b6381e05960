package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/report"
	"github.com/secmon-lab/opsdash/pkg/service/stats"
)

// ResponseTimestampLayout formats the "timestamp" field of API responses
const ResponseTimestampLayout = "2006-01-02T15:04:05.000000"

// BackendUseCase serves the dashboard API from a transaction repository
type BackendUseCase struct {
	repo interfaces.TransactionRepository
	host string
	now  func() time.Time
}

// BackendOption configures BackendUseCase
type BackendOption func(*BackendUseCase)

// WithHost sets the host reported by DBStatus
func WithHost(host string) BackendOption {
	return func(uc *BackendUseCase) {
		uc.host = host
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) BackendOption {
	return func(uc *BackendUseCase) {
		uc.now = now
	}
}

// NewBackendUseCase creates a new BackendUseCase instance
func NewBackendUseCase(repo interfaces.TransactionRepository, opts ...BackendOption) *BackendUseCase {
	uc := &BackendUseCase{
		repo: repo,
		host: model.NotAvailable,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// DashboardStats aggregates the transactions received within window
func (uc *BackendUseCase) DashboardStats(ctx context.Context, window types.TimeWindow) (*model.DashboardResponse, error) {
	if err := window.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid time window", goerr.T(model.ErrTagInvalidArgument))
	}

	now := uc.now()
	txs, err := uc.repo.ListTransactions(ctx, model.TransactionQuery{
		Since: now.Add(-window.Duration()),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list transactions for stats",
			goerr.V("time_window", window.Minutes()))
	}

	s := stats.Dashboard(txs, window.Minutes())
	return &model.DashboardResponse{
		Stats:                &s,
		TimeWindow:           window.Minutes(),
		TransactionsInWindow: toRecords(txs),
		Timestamp:            now.Format(ResponseTimestampLayout),
	}, nil
}

// Feed returns the newest numItems transactions
func (uc *BackendUseCase) Feed(ctx context.Context, numItems int) (*model.FeedResponse, error) {
	if numItems <= 0 {
		return nil, goerr.New("number of items must be positive",
			goerr.V("num_items", numItems),
			goerr.T(model.ErrTagInvalidArgument))
	}

	txs, err := uc.repo.ListTransactions(ctx, model.TransactionQuery{Limit: numItems})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list transactions for feed", goerr.V("num_items", numItems))
	}

	return &model.FeedResponse{
		Transactions: toRecords(txs),
		NumItems:     numItems,
		Timestamp:    uc.now().Format(ResponseTimestampLayout),
	}, nil
}

// Usernames returns the distinct usernames
func (uc *BackendUseCase) Usernames(ctx context.Context) ([]string, error) {
	names, err := uc.repo.ListUsernames(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list usernames")
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// DBStatus describes the transaction source
func (uc *BackendUseCase) DBStatus(ctx context.Context) (*model.DBStatus, error) {
	count, err := uc.repo.CountTransactions(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count transactions")
	}

	status := &model.DBStatus{
		Backend:      uc.repo.Backend(),
		Host:         uc.host,
		TotalRecords: count,
	}

	if count > 0 {
		newest, err := uc.repo.ListTransactions(ctx, model.TransactionQuery{Limit: 1})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get newest transaction")
		}
		if len(newest) > 0 {
			status.Newest = newest[0].IngressTime.Format(time.RFC3339)
		}
	}
	return status, nil
}

// DBTableStats returns the record count per collection. Neither backend
// exposes its storage size, so DBSize is always NotAvailable.
func (uc *BackendUseCase) DBTableStats(ctx context.Context) (*model.DBTableStats, error) {
	count, err := uc.repo.CountTransactions(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count transactions",
			goerr.V("collection", uc.repo.Collection()))
	}
	return &model.DBTableStats{
		TableStats:   map[string]int{uc.repo.Collection(): count},
		TotalRecords: count,
		DBSize:       model.NotAvailable,
	}, nil
}

// Report builds a report of the transactions received between req.Start and
// req.End. It fails with ErrNoTransactions when nothing matches, which
// includes a range that ends before it starts.
func (uc *BackendUseCase) Report(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	if !req.Format.IsValid() {
		return nil, goerr.New("unsupported report format",
			goerr.V("format", req.Format),
			goerr.T(model.ErrTagInvalidArgument))
	}

	var txs []*model.Transaction
	if !req.End.Before(req.Start) {
		var err error
		txs, err = uc.repo.ListTransactions(ctx, model.TransactionQuery{
			Since:    req.Start,
			Until:    req.End,
			Username: req.Username,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list transactions for report")
		}
	}
	if len(txs) == 0 {
		return nil, goerr.Wrap(model.ErrNoTransactions, "nothing to report",
			goerr.V("start", req.Start),
			goerr.V("end", req.End),
			goerr.V("username", req.Username))
	}

	r, err := report.Generate(txs, req, uc.now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate report")
	}

	ctxlog.From(ctx).Info("report generated",
		"filename", r.Filename,
		"transactions", len(txs),
		"format", req.Format,
	)
	return r, nil
}

// Clear deletes every transaction. Failures are reported in the result.
func (uc *BackendUseCase) Clear(ctx context.Context) *model.ClearResult {
	deleted, err := uc.repo.ClearTransactions(ctx)
	if err != nil {
		ctxlog.From(ctx).Error("failed to clear transactions", "error", err)
		return &model.ClearResult{
			Success:     false,
			Message:     fmt.Sprintf("Error clearing transactions: %v", err),
			MessageType: "error",
		}
	}

	ctxlog.From(ctx).Info("transactions cleared", "deleted", deleted)
	return &model.ClearResult{
		Success:     true,
		Message:     fmt.Sprintf("%d transactions deleted successfully.", deleted),
		MessageType: "success",
	}
}

// TransactionCount returns the number of stored transactions
func (uc *BackendUseCase) TransactionCount(ctx context.Context) (int, error) {
	n, err := uc.repo.CountTransactions(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count transactions")
	}
	return n, nil
}

func toRecords(txs []*model.Transaction) []model.TransactionRecord {
	records := make([]model.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, tx.ToRecord())
	}
	return records
}
