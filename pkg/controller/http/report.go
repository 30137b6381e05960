package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/api"
)

const (
	defaultReportRange = 24 * time.Hour
	rangeSeparator     = " - "

	noTransactionsMessage = "No transactions found for the selected criteria. Please try a different date range or filter."
)

// parseDateRange parses "start - end". A malformed range falls back to the
// last 24 hours before now.
func parseDateRange(raw string, now time.Time) (start, end time.Time, ok bool) {
	fallbackStart, fallbackEnd := now.Add(-defaultReportRange), now

	startStr, endStr, found := strings.Cut(raw, rangeSeparator)
	if !found {
		return fallbackStart, fallbackEnd, false
	}

	start, err := time.ParseInLocation(api.ReportRangeLayout, strings.TrimSpace(startStr), now.Location())
	if err != nil {
		return fallbackStart, fallbackEnd, false
	}
	end, err = time.ParseInLocation(api.ReportRangeLayout, strings.TrimSpace(endStr), now.Location())
	if err != nil {
		return fallbackStart, fallbackEnd, false
	}
	return start, end, true
}

func formatDateRange(start, end time.Time) string {
	return start.Format(api.ReportRangeLayout) + rangeSeparator + end.Format(api.ReportRangeLayout)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	start, end, ok := parseDateRange(r.PostForm.Get("daterange"), s.now())
	if !ok {
		ctxlog.From(ctx).Debug("using default report range", "daterange", r.PostForm.Get("daterange"))
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	if strings.EqualFold(username, "all") {
		username = ""
	}

	format := model.ReportFormat(r.PostForm.Get("report_format"))
	if format == "" {
		format = model.ReportFormatCSV
	}

	report, err := s.backend.Report(ctx, model.ReportRequest{
		Start:    start,
		End:      end,
		Username: username,
		Format:   format,
	})
	if errors.Is(err, model.ErrNoTransactions) {
		q := url.Values{}
		q.Set("report_message", noTransactionsMessage)
		q.Set("report_message_type", "warning")
		http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(report.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Body); err != nil {
		ctxlog.From(ctx).Error("Failed to write report", "error", err)
	}
}
