package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/controller/snapshot"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/service/api"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Client holds the configuration of the commands that poll the dashboard API
type Client struct {
	APIURL      string
	Timeout     time.Duration
	RefreshRate time.Duration
	TimeWindow  int
	NumItems    int
	Color       string
}

// Flags returns CLI flags for Client configuration
func (c *Client) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the opsdash server",
			Category:    "Client",
			Value:       "http://localhost:8080",
			Sources:     cli.EnvVars("OPSDASH_API_URL"),
			Destination: &c.APIURL,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of each API request",
			Category:    "Client",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("OPSDASH_TIMEOUT"),
			Destination: &c.Timeout,
		},
		&cli.DurationFlag{
			Name:        "refresh",
			Usage:       "Auto-refresh period, 0 disables polling",
			Category:    "Client",
			Value:       5 * time.Second,
			Sources:     cli.EnvVars("OPSDASH_REFRESH"),
			Destination: &c.RefreshRate,
		},
		&cli.IntFlag{
			Name:        "time-window",
			Usage:       "Statistics window in minutes",
			Category:    "Client",
			Value:       int(types.DefaultTimeWindow),
			Sources:     cli.EnvVars("OPSDASH_TIME_WINDOW"),
			Destination: &c.TimeWindow,
		},
		&cli.IntFlag{
			Name:        "num-items",
			Usage:       "Number of transactions in the live feed",
			Category:    "Client",
			Value:       usecase.DefaultFeedSize,
			Sources:     cli.EnvVars("OPSDASH_NUM_ITEMS"),
			Destination: &c.NumItems,
		},
		&cli.StringFlag{
			Name:        "color",
			Usage:       "Colored snapshot output (auto, always, never)",
			Category:    "Client",
			Value:       string(snapshot.ColorAuto),
			Sources:     cli.EnvVars("OPSDASH_COLOR"),
			Destination: &c.Color,
		},
	}
}

// Validate validates the client configuration
func (c *Client) Validate() error {
	if c.RefreshRate < 0 {
		return goerr.New("refresh period must not be negative",
			goerr.V("refresh", c.RefreshRate),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if err := types.TimeWindow(c.TimeWindow).Validate(); err != nil {
		return goerr.Wrap(err, "invalid time window", goerr.T(model.ErrTagInvalidArgument))
	}
	if c.NumItems <= 0 {
		return goerr.New("number of items must be positive",
			goerr.V("num_items", c.NumItems),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if _, err := snapshot.ParseColorMode(c.Color); err != nil {
		return err
	}
	return nil
}

// Configure creates the API client
func (c *Client) Configure() (*api.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []api.Option
	if c.Timeout > 0 {
		opts = append(opts, api.WithTimeout(c.Timeout))
	}
	client, err := api.New(c.APIURL, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create API client")
	}
	return client, nil
}

// ColorMode returns the parsed snapshot color mode
func (c *Client) ColorMode() snapshot.ColorMode {
	mode, err := snapshot.ParseColorMode(c.Color)
	if err != nil {
		return snapshot.ColorAuto
	}
	return mode
}

// LogValue returns structured log value
func (c Client) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("api_url", c.APIURL),
		slog.Duration("timeout", c.Timeout),
		slog.Duration("refresh", c.RefreshRate),
		slog.Int("time_window", c.TimeWindow),
		slog.Int("num_items", c.NumItems),
		slog.String("color", c.Color),
	)
}
