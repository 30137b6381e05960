package report

import (
	"bytes"
	"embed"
	"encoding/csv"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/stats"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"bytes": func(n int64) string { return stats.FormatBytesSI(float64(n)) },
	"deref": func(p *int64) int64 { return *p },
}).ParseFS(templateFS, "templates/report.html"))

const (
	filenameLayout = "20060102150405"
	rangeLayout    = "2006-01-02 15:04"
	csvTimeLayout  = "2006-01-02 15:04:05.000"
)

// CSVHeader is the first row of a CSV report
var CSVHeader = []string{
	"transaction_id", "username", "file_name", "file_size", "ingress_server",
	"ingress_time", "egress_server", "egress_time", "status", "transit_time_seconds",
}

// Filename returns the report file name for a range, without extension
func Filename(start, end time.Time) string {
	return "transactions_" + start.Format(filenameLayout) + "_" + end.Format(filenameLayout)
}

// WriteCSV writes txs as CSV with a header row
func WriteCSV(w io.Writer, txs []*model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}

	for _, t := range txs {
		row := []string{
			t.ID.String(),
			t.Username,
			t.FileName,
			strconv.FormatInt(t.FileSize, 10),
			t.IngressServer,
			formatCSVTime(&t.IngressTime),
			t.EgressServer,
			formatCSVTime(t.EgressTime),
			t.Status.String(),
			"",
		}
		if d, ok := t.TransitSeconds(); ok {
			row[9] = strconv.FormatFloat(d, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write CSV row", goerr.V("transaction_id", t.ID))
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush CSV")
	}
	return nil
}

func formatCSVTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(csvTimeLayout)
}

// BuildData computes the statistics shown by the HTML report
func BuildData(txs []*model.Transaction, start, end, now time.Time) model.ReportData {
	overall := stats.Report(txs, end.Sub(start).Minutes())
	overall.StartTimeStr = start.Format(rangeLayout)
	overall.EndTimeStr = end.Format(rangeLayout)

	records := make([]model.TransactionRecord, 0, len(txs))
	for _, t := range txs {
		records = append(records, t.ToRecord())
	}

	return model.ReportData{
		Transactions: records,
		Overall:      overall,
		Users:        stats.UserReports(txs),
		GeneratedAt:  now,
	}
}

// WriteHTML renders data as a standalone HTML document
func WriteHTML(w io.Writer, data model.ReportData) error {
	if err := reportTemplate.Execute(w, data); err != nil {
		return goerr.Wrap(err, "failed to render HTML report")
	}
	return nil
}

// Generate builds the report file for txs
func Generate(txs []*model.Transaction, req model.ReportRequest, now time.Time) (*model.Report, error) {
	if !req.Format.IsValid() {
		return nil, goerr.New("unsupported report format",
			goerr.V("format", req.Format),
			goerr.T(model.ErrTagInvalidArgument))
	}

	var buf bytes.Buffer
	name := Filename(req.Start, req.End)

	switch req.Format {
	case model.ReportFormatCSV:
		if err := WriteCSV(&buf, txs); err != nil {
			return nil, err
		}
		return &model.Report{
			Filename:    name + ".csv",
			ContentType: "text/csv",
			Body:        buf.Bytes(),
		}, nil

	default:
		if err := WriteHTML(&buf, BuildData(txs, req.Start, req.End, now)); err != nil {
			return nil, err
		}
		return &model.Report{
			Filename:    name + ".html",
			ContentType: "text/html; charset=utf-8",
			Body:        buf.Bytes(),
		}, nil
	}
}
