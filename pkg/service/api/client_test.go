package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard-stats", func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Query().Get("time_window"), "15")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"stats": map[string]any{
				"ingress": map[string]any{"SUBMITTED": 2, "total_tx": 5},
				"egress":  map[string]any{"COMPLETE": 3, "avg_transit_time": "1.2 s"},
				"general": map[string]any{"active_users": 4},
			},
			"time_window":            15,
			"transactions_in_window": []map[string]any{{"transaction_id": "tx-1", "file_size": nil}},
			"timestamp":              "2025-04-15T14:00:00",
		})
	})
	mux.HandleFunc("/api/transactions-feed", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"transactions": []map[string]any{{"transaction_id": "tx-2", "file_size": 10}},
			"num_items":    r.URL.Query().Get("num_items") + "0",
		})
	})
	mux.HandleFunc("/api/usernames", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"usernames":["alice","bob"]}`))
	})
	mux.HandleFunc("/api/db-status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"backend":"memory","host":"local","total_records":7}`))
	})
	mux.HandleFunc("/api/db-table-stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"table_stats":{"transactions":7},"total_records":7,"db_size":"N/A"}`))
	})
	mux.HandleFunc("/download_report", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") == "nobody" {
			http.Redirect(w, r, "/?report_message=empty", http.StatusSeeOther)
			return
		}
		gt.Equal(t, r.PostForm.Get("daterange"), "2025-04-15 00:00:00 - 2025-04-16 00:00:00")
		gt.Equal(t, r.PostForm.Get("report_format"), "csv")
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=transactions_1_2.csv")
		_, _ = w.Write([]byte("transaction_id\n"))
	})
	mux.HandleFunc("/admin/clear-db", func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPost)
		_, _ = w.Write([]byte(`{"success":true,"message":"Cleared 3 transactions","message_type":"success"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	client, err := api.New(srv.URL + "/")
	gt.NoError(t, err).Required()

	t.Run("dashboard stats", func(t *testing.T) {
		resp, err := client.GetDashboardStats(ctx, 15)
		gt.NoError(t, err).Required()
		gt.V(t, resp.Stats).NotNil()
		gt.Equal(t, resp.Stats.Ingress.Submitted, 2)
		gt.Equal(t, resp.Stats.Egress.Complete, 3)
		gt.Equal(t, resp.Stats.Egress.AvgTransitTime, "1.2 s")
		gt.Equal(t, resp.Stats.General.ActiveUsers, 4)
		gt.Equal(t, resp.TimeWindow, 15)
		gt.A(t, resp.TransactionsInWindow).Length(1)
		gt.V(t, resp.TransactionsInWindow[0].FileSize).Nil()
	})

	t.Run("usernames", func(t *testing.T) {
		names, err := client.GetUsernames(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, names, []string{"alice", "bob"})
	})

	t.Run("db status", func(t *testing.T) {
		status, err := client.GetDBStatus(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, status.Backend, "memory")
		gt.Equal(t, status.TotalRecords, 7)
	})

	t.Run("db table stats", func(t *testing.T) {
		stats, err := client.GetDBTableStats(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, stats.TableStats, map[string]int{"transactions": 7})
		gt.Equal(t, stats.TotalRecords, 7)
		gt.Equal(t, stats.DBSize, "N/A")
	})

	t.Run("report download", func(t *testing.T) {
		r, err := client.DownloadReport(ctx, model.ReportRequest{
			Start:  time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC),
			Format: model.ReportFormatCSV,
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Filename, "transactions_1_2.csv")
		gt.Equal(t, string(r.Body), "transaction_id\n")
	})

	t.Run("empty report", func(t *testing.T) {
		_, err := client.DownloadReport(ctx, model.ReportRequest{
			Username: "nobody",
			Format:   model.ReportFormatCSV,
		})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrNoTransactions))
	})

	t.Run("clear database", func(t *testing.T) {
		result, err := client.ClearDatabase(ctx)
		gt.NoError(t, err).Required()
		gt.True(t, result.Success)
		gt.Equal(t, result.MessageType, "success")
	})

	t.Run("malformed body is a decode error", func(t *testing.T) {
		_, err := client.GetTransactionsFeed(ctx, 5)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagDecode))
	})
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	gt.NoError(t, err).Required()

	_, err = client.GetUsernames(context.Background())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, model.ErrTagUpstream))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := api.New(url, api.WithTimeout(time.Second))
	gt.NoError(t, err).Required()

	_, err = client.GetDashboardStats(context.Background(), 60)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, model.ErrTagUpstream))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := api.New("ftp://example.com")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, model.ErrTagInvalidArgument))
}
