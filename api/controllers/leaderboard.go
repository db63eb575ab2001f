package controllers

import (
	"net/http"

	"github.com/aviral-workprojects/krishi-connect/api/responses"
	"github.com/aviral-workprojects/krishi-connect/api/validators"
	internalleaderboard "github.com/aviral-workprojects/krishi-connect/internal/leaderboard"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
)

// Leaderboard returns the farmers ranked by lifetime paid sales.
func Leaderboard(svc internalleaderboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.TopFarmers(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
