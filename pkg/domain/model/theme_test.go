package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

func TestNormalizeStatusKey(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Complete", "complete"},
		{"BAD_REQUEST", "bad-request"},
		{"Bad Request", "bad-request"},
		{"  CD   Unavailable ", "cd-unavailable"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			gt.Equal(t, model.NormalizeStatusKey(tc.input), tc.expected)
		})
	}
}

func TestThemeConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		theme   model.ThemeConfig
		wantErr bool
	}{
		{
			name: "valid theme",
			theme: model.ThemeConfig{
				Fallback: "#123456",
				Colors: []model.StatusColor{
					{Status: "Complete", Color: "#00ff00"},
					{Status: "BAD_REQUEST", Color: "#FF0000"},
				},
			},
		},
		{
			name:    "no colors",
			theme:   model.ThemeConfig{Fallback: "#123456"},
			wantErr: true,
		},
		{
			name: "bad fallback",
			theme: model.ThemeConfig{
				Fallback: "grey",
				Colors:   []model.StatusColor{{Status: "Complete", Color: "#00ff00"}},
			},
			wantErr: true,
		},
		{
			name: "short hex",
			theme: model.ThemeConfig{
				Colors: []model.StatusColor{{Status: "Complete", Color: "#0f0"}},
			},
			wantErr: true,
		},
		{
			name: "missing status",
			theme: model.ThemeConfig{
				Colors: []model.StatusColor{{Color: "#00ff00"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate after normalization",
			theme: model.ThemeConfig{
				Colors: []model.StatusColor{
					{Status: "Bad Request", Color: "#ff0000"},
					{Status: "BAD_REQUEST", Color: "#ff0001"},
				},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.theme.Validate()
			if tc.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}
