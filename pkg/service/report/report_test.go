package report_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/report"
)

var (
	start = time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)
)

func sampleTransactions() []*model.Transaction {
	egress := start.Add(2*time.Hour + 1500*time.Millisecond)
	return []*model.Transaction{
		{
			ID:            "tx-1",
			Username:      "alice",
			FileName:      "a.csv",
			FileSize:      2048,
			IngressServer: "ingress-1",
			IngressTime:   start.Add(2 * time.Hour),
			EgressServer:  "egress-1",
			EgressTime:    &egress,
			Status:        types.StatusComplete,
		},
		{
			ID:            "tx-2",
			Username:      "bob",
			FileName:      "b<script>.bin",
			FileSize:      10,
			IngressServer: "ingress-2",
			IngressTime:   start.Add(3 * time.Hour),
			Status:        types.StatusSubmitted,
		},
	}
}

func TestFilename(t *testing.T) {
	gt.Equal(t, report.Filename(start, end), "transactions_20250415000000_20250416000000")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, report.WriteCSV(&buf, sampleTransactions())).Required()

	rows, err := csv.NewReader(&buf).ReadAll()
	gt.NoError(t, err).Required()
	gt.A(t, rows).Length(3)
	gt.Equal(t, rows[0], report.CSVHeader)
	gt.Equal(t, rows[1], []string{
		"tx-1", "alice", "a.csv", "2048", "ingress-1",
		"2025-04-15 02:00:00.000", "egress-1", "2025-04-15 02:00:01.500", "COMPLETE", "1.5",
	})
	gt.Equal(t, rows[2][7], "")
	gt.Equal(t, rows[2][9], "")
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, report.WriteCSV(&buf, nil))
	gt.Equal(t, buf.String(), strings.Join(report.CSVHeader, ",")+"\n")
}

func TestGenerate(t *testing.T) {
	now := time.Date(2025, 4, 16, 9, 30, 0, 0, time.UTC)

	t.Run("CSV report", func(t *testing.T) {
		r, err := report.Generate(sampleTransactions(), model.ReportRequest{
			Start: start, End: end, Format: model.ReportFormatCSV,
		}, now)
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Filename, "transactions_20250415000000_20250416000000.csv")
		gt.Equal(t, r.ContentType, "text/csv")
		gt.S(t, string(r.Body)).Contains("transaction_id,username")
	})

	t.Run("HTML report", func(t *testing.T) {
		r, err := report.Generate(sampleTransactions(), model.ReportRequest{
			Start: start, End: end, Format: model.ReportFormatHTML,
		}, now)
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Filename, "transactions_20250415000000_20250416000000.html")

		body := string(r.Body)
		gt.S(t, body).Contains("Period: 2025-04-15 00:00 to 2025-04-16 00:00")
		gt.S(t, body).Contains("Generated 2025-04-16 09:30:00")
		gt.S(t, body).Contains("<td>alice</td>")
		gt.S(t, body).Contains("<td>COMPLETE</td><td class=\"numeric\">1</td>")
		gt.S(t, body).Contains("b&lt;script&gt;.bin")
		gt.False(t, strings.Contains(body, "b<script>"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := report.Generate(nil, model.ReportRequest{Start: start, End: end, Format: "pdf"}, now)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagInvalidArgument))
	})
}

func TestBuildData(t *testing.T) {
	data := report.BuildData(sampleTransactions(), start, end, end)
	gt.Equal(t, data.Overall.TotalTransactions, 2)
	gt.Equal(t, data.Overall.StartTimeStr, "2025-04-15 00:00")
	gt.Equal(t, data.Overall.EndTimeStr, "2025-04-16 00:00")
	gt.A(t, data.Users).Length(2)
	gt.A(t, data.Transactions).Length(2)
	gt.Equal(t, data.Transactions[0].TransitTime, "1.500s")
}
