package http

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/frontend"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/secmon-lab/opsdash/pkg/service/table"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/secmon-lab/opsdash/pkg/utils/apperr"
)

var (
	refreshOptions  = []int{0, 5, 10, 30, 60}
	numItemsOptions = []int{10, 25, 50, 100, 200}
)

type dashboardPage struct {
	Title          string
	Refresh        int
	RefreshOptions []int
	Windows        []types.TimeWindow
	View           *model.DashboardView
	ReportMessage  string
	Usernames      []string
	DefaultRange   string
}

type transactionsPage struct {
	Title           string
	Refresh         int
	RefreshOptions  []int
	NumItemsOptions []int
	Statuses        []types.Status
	View            *model.FeedView
}

func parsePages() (*template.Template, error) {
	tfs, err := frontend.Templates()
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"svg": func(c *model.DonutChart) template.HTML {
			// SVG escapes every interpolated value
			return template.HTML(chart.SVG(c)) // #nosec G203
		},
		"highlightURL": highlightURL,
	}
	return template.New("pages").Funcs(funcs).ParseFS(tfs, "*.html")
}

// highlightURL links a legend entry to the dashboard with its wedge emphasized
func highlightURL(window types.TimeWindow, refresh int, category string) string {
	q := url.Values{}
	q.Set("time_window", strconv.Itoa(window.Minutes()))
	if refresh > 0 {
		q.Set("refresh", strconv.Itoa(refresh))
	}
	q.Set("highlight", category)
	return "/?" + q.Encode()
}

// queryRefresh reads the auto-refresh period in seconds. Zero disables it.
func queryRefresh(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("refresh")
	if raw == "" || raw == "0" {
		return 0, nil
	}
	return queryInt(r, "refresh", 0)
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	minutes, err := queryInt(r, "time_window", int(types.DefaultTimeWindow))
	if err != nil {
		writeError(w, r, err)
		return
	}
	refresh, err := queryRefresh(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dash := usecase.NewDashboardUseCase(usecase.NewLocalAPI(s.backend), s.renderer, types.TimeWindow(minutes))
	resp, fetchErr := dash.Fetch(ctx)
	if fetchErr != nil {
		apperr.Handle(ctx, fetchErr)
	}
	view := dash.View(resp, fetchErr)

	if hl := r.URL.Query().Get("highlight"); hl != "" && view.Chart != nil {
		var h chart.Highlighter
		h.Enter(view.Chart, hl)
	}

	usernames, err := s.backend.Usernames(ctx)
	if err != nil {
		ctxlog.From(ctx).Warn("failed to load usernames for report form", "error", err)
	}

	now := s.now()
	s.renderPage(w, r, "dashboard", dashboardPage{
		Title:          "Dashboard",
		Refresh:        refresh,
		RefreshOptions: refreshOptions,
		Windows:        types.TimeWindows,
		View:           view,
		ReportMessage:  r.URL.Query().Get("report_message"),
		Usernames:      usernames,
		DefaultRange:   formatDateRange(now.Add(-defaultReportRange), now),
	})
}

func (s *Server) handleTransactionsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := queryInt(r, "num_items", usecase.DefaultFeedSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	refresh, err := queryRefresh(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	feed := usecase.NewFeedUseCase(usecase.NewLocalAPI(s.backend), n)
	feed.SetFilter(table.Filter{
		Username: r.URL.Query().Get("username"),
		Status:   r.URL.Query().Get("status"),
	})
	if err := feed.LoadInitial(ctx); err != nil {
		apperr.Handle(ctx, err)
	}

	s.renderPage(w, r, "transactions", transactionsPage{
		Title:           "Live Transactions",
		Refresh:         refresh,
		RefreshOptions:  refreshOptions,
		NumItemsOptions: numItemsOptions,
		Statuses:        types.AllStatuses(),
		View:            feed.View(),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to render page", goerr.V("page", name)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write page", "error", err)
	}
}
