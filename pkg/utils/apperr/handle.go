package apperr

import (
	"context"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
)

// Handle logs err. Client mistakes are logged at warn level.
func Handle(ctx context.Context, err error) {
	logger := ctxlog.From(ctx)
	if goerr.HasTag(err, model.ErrTagInvalidArgument) {
		logger.Warn("invalid request", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}

// StatusCode maps err to the HTTP status returned to the client
func StatusCode(err error) int {
	switch {
	case goerr.HasTag(err, model.ErrTagInvalidArgument):
		return http.StatusBadRequest
	case goerr.HasTag(err, model.ErrTagUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
