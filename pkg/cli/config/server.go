package config

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr string
	Host string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("OPSDASH_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringFlag{
			Name:        "db-host",
			Usage:       "Host name reported by /api/db-status (defaults to the machine host name)",
			Sources:     cli.EnvVars("OPSDASH_DB_HOST"),
			Destination: &s.Host,
		},
	}
}

// ReportedHost returns the host shown in the database status
func (s *Server) ReportedHost() string {
	if s.Host != "" {
		return s.Host
	}
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return ""
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.String("db_host", s.Host),
	)
}
