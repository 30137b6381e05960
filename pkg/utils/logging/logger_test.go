package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/utils/logging"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input   string
		want    logging.Format
		wantErr bool
	}{
		{"", logging.FormatAuto, false},
		{"auto", logging.FormatAuto, false},
		{"console", logging.FormatConsole, false},
		{"JSON", logging.FormatJSON, false},
		{"xml", logging.FormatAuto, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := logging.ParseFormat(tc.input)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tc.want)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, logging.ParseLogLevel("debug"), slog.LevelDebug)
	gt.Equal(t, logging.ParseLogLevel("WARNING"), slog.LevelWarn)
	gt.Equal(t, logging.ParseLogLevel("error"), slog.LevelError)
	gt.Equal(t, logging.ParseLogLevel(""), slog.LevelInfo)
	gt.Equal(t, logging.ParseLogLevel("verbose"), slog.LevelInfo)
}

func TestNewLoggerWithFormat(t *testing.T) {
	t.Run("auto writes JSON to non-terminals", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLoggerWithFormat(slog.LevelInfo, &buf, logging.FormatAuto)
		logger.Info("fetched", "items", 3)
		logger.Debug("hidden")

		var record map[string]any
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
		gt.Equal(t, record["msg"], any("fetched"))
		gt.Equal(t, record["items"], any(float64(3)))
	})

	t.Run("console format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLoggerWithFormat(slog.LevelDebug, &buf, logging.FormatConsole)
		logger.Debug("visible")
		gt.S(t, buf.String()).Contains("visible")
	})

	t.Run("discard", func(t *testing.T) {
		logging.Discard().Error("nothing happens")
	})
}
