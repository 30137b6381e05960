package http

import (
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/usecase"
)

// queryInt reads a positive integer query parameter, returning def when
// the parameter is absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.Wrap(err, "query parameter must be an integer",
			goerr.V("name", name),
			goerr.V("value", raw),
			goerr.T(model.ErrTagInvalidArgument))
	}
	if v <= 0 {
		return 0, goerr.New("query parameter must be positive",
			goerr.V("name", name),
			goerr.V("value", v),
			goerr.T(model.ErrTagInvalidArgument))
	}
	return v, nil
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	minutes, err := queryInt(r, "time_window", int(types.DefaultTimeWindow))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.backend.DashboardStats(r.Context(), types.TimeWindow(minutes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleTransactionsFeed(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "num_items", usecase.DefaultFeedSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := s.backend.Feed(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleUsernames(w http.ResponseWriter, r *http.Request) {
	names, err := s.backend.Usernames(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, model.UsernamesResponse{Usernames: names})
}

func (s *Server) handleDBStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.backend.DBStatus(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) handleDBTableStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.backend.DBTableStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleClearDB(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.backend.Clear(r.Context()))
}
