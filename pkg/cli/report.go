package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/api"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var (
		clientCfg config.Client
		from      string
		to        string
		username  string
		format    string
		output    string
	)

	flags := joinFlags(
		clientCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "from",
				Usage:       "Start of the range (" + api.ReportRangeLayout + "), defaults to 24 hours before --to",
				Destination: &from,
			},
			&cli.StringFlag{
				Name:        "to",
				Usage:       "End of the range (" + api.ReportRangeLayout + "), defaults to now",
				Destination: &to,
			},
			&cli.StringFlag{
				Name:        "user",
				Usage:       "Restrict the report to one username",
				Destination: &username,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Report format (csv, html)",
				Value:       string(model.ReportFormatCSV),
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file, \"-\" writes to stdout (default: file name chosen by the server)",
				Destination: &output,
			},
		},
	)

	return &cli.Command{
		Name:  "report",
		Usage: "Download a transaction report",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			req, err := buildReportRequest(from, to, username, format, time.Now())
			if err != nil {
				return err
			}

			client, err := clientCfg.Configure()
			if err != nil {
				return err
			}

			report, err := client.DownloadReport(ctx, req)
			if errors.Is(err, model.ErrNoTransactions) {
				fmt.Fprintln(os.Stderr, model.ErrNoTransactions.Error())
				return nil
			}
			if err != nil {
				return goerr.Wrap(err, "failed to download report")
			}

			path := output
			if path == "" {
				path = report.Filename
			}
			if path == "" {
				path = "transaction_report." + string(req.Format)
			}
			if path == "-" {
				_, err := os.Stdout.Write(report.Body)
				return err
			}

			if err := os.WriteFile(path, report.Body, 0o644); err != nil {
				return goerr.Wrap(err, "failed to write report", goerr.V("path", path))
			}
			ctxlog.From(ctx).Info("report saved", "path", path, "bytes", len(report.Body))
			fmt.Fprintf(os.Stderr, "saved %s (%d bytes)\n", path, len(report.Body))
			return nil
		},
	}
}

func buildReportRequest(from, to, username, format string, now time.Time) (model.ReportRequest, error) {
	req := model.ReportRequest{
		Username: username,
		Format:   model.ReportFormat(format),
	}
	if !req.Format.IsValid() {
		return req, goerr.New("unsupported report format",
			goerr.V("format", format),
			goerr.T(model.ErrTagInvalidArgument))
	}

	req.End = now
	if to != "" {
		t, err := time.ParseInLocation(api.ReportRangeLayout, to, time.Local)
		if err != nil {
			return req, goerr.Wrap(err, "invalid --to", goerr.V("to", to), goerr.T(model.ErrTagInvalidArgument))
		}
		req.End = t
	}

	req.Start = req.End.Add(-24 * time.Hour)
	if from != "" {
		t, err := time.ParseInLocation(api.ReportRangeLayout, from, time.Local)
		if err != nil {
			return req, goerr.Wrap(err, "invalid --from", goerr.V("from", from), goerr.T(model.ErrTagInvalidArgument))
		}
		req.Start = t
	}

	if req.Start.After(req.End) {
		return req, goerr.New("--from must not be after --to",
			goerr.V("from", req.Start),
			goerr.V("to", req.End),
			goerr.T(model.ErrTagInvalidArgument))
	}
	return req, nil
}
