package cli_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/cli"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

func TestBuildReportRequest(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

	t.Run("defaults to the last 24 hours", func(t *testing.T) {
		req, err := cli.BuildReportRequest("", "", "", "csv", now)
		gt.NoError(t, err).Required()
		gt.True(t, req.End.Equal(now))
		gt.True(t, req.Start.Equal(now.Add(-24*time.Hour)))
		gt.Equal(t, req.Format, model.ReportFormatCSV)
		gt.Equal(t, req.Username, "")
	})

	t.Run("explicit range and user", func(t *testing.T) {
		req, err := cli.BuildReportRequest("2024-03-01 00:00:00", "2024-03-02 06:30:00", "alice", "html", now)
		gt.NoError(t, err).Required()
		gt.True(t, req.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)))
		gt.True(t, req.End.Equal(time.Date(2024, 3, 2, 6, 30, 0, 0, time.Local)))
		gt.Equal(t, req.Username, "alice")
		gt.Equal(t, req.Format, model.ReportFormatHTML)
	})

	t.Run("start follows end when only --to is set", func(t *testing.T) {
		req, err := cli.BuildReportRequest("", "2024-03-02 00:00:00", "", "csv", now)
		gt.NoError(t, err).Required()
		gt.True(t, req.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)))
	})

	testCases := []struct {
		name   string
		from   string
		to     string
		format string
	}{
		{name: "unsupported format", format: "pdf"},
		{name: "malformed from", from: "yesterday", format: "csv"},
		{name: "malformed to", to: "2024/03/02", format: "csv"},
		{name: "inverted range", from: "2024-03-03 00:00:00", to: "2024-03-02 00:00:00", format: "csv"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cli.BuildReportRequest(tc.from, tc.to, "", tc.format, now)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, model.ErrTagInvalidArgument))
		})
	}
}
