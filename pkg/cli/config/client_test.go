package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/cli/config"
	"github.com/secmon-lab/opsdash/pkg/controller/snapshot"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

func validClient() config.Client {
	return config.Client{
		APIURL:      "http://localhost:8080",
		Timeout:     time.Second,
		RefreshRate: 5 * time.Second,
		TimeWindow:  60,
		NumItems:    50,
		Color:       "auto",
	}
}

func TestClient_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(c *config.Client)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *config.Client) {}},
		{name: "refresh off", modify: func(c *config.Client) { c.RefreshRate = 0 }},
		{name: "negative refresh", modify: func(c *config.Client) { c.RefreshRate = -time.Second }, wantErr: true},
		{name: "zero window", modify: func(c *config.Client) { c.TimeWindow = 0 }, wantErr: true},
		{name: "zero items", modify: func(c *config.Client) { c.NumItems = 0 }, wantErr: true},
		{name: "unknown color", modify: func(c *config.Client) { c.Color = "sometimes" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := validClient()
			tc.modify(&c)
			err := c.Validate()
			if tc.wantErr {
				gt.Error(t, err)
				gt.True(t, goerr.HasTag(err, model.ErrTagInvalidArgument))
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestClient_Configure(t *testing.T) {
	c := validClient()
	c.APIURL = "http://example.test:9000/"
	client, err := c.Configure()
	gt.NoError(t, err).Required()
	gt.V(t, client).NotNil()

	c.Color = "never"
	gt.Equal(t, c.ColorMode(), snapshot.ColorNever)
}

func TestSimulator_Validate(t *testing.T) {
	sim := config.Simulator{Batch: 1}
	gt.NoError(t, sim.Validate())
	gt.False(t, sim.Enabled())

	sim.SeedCount = 10
	gt.True(t, sim.Enabled())

	sim.Batch = 0
	gt.Error(t, sim.Validate())

	sim = config.Simulator{Batch: 1, Interval: -time.Second}
	gt.Error(t, sim.Validate())
}
