package controllers

import (
	"net/http"
	"strings"

	"github.com/aviral-workprojects/krishi-connect/api/responses"
	"github.com/aviral-workprojects/krishi-connect/api/validators"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
	"github.com/aviral-workprojects/krishi-connect/pkg/mlapi"
)

type recommendBody struct {
	CropName string  `json:"crop_name" validate:"required,min=2,max=120"`
	Location string  `json:"location,omitempty" validate:"omitempty,max=120"`
	Month    int     `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	AreaAcre float64 `json:"area_acre,omitempty" validate:"omitempty,gt=0"`
}

// Recommend proxies a price advisory request to the ML service.
func Recommend(client *mlapi.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recommendBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recommendation, err := client.Recommend(r.Context(), mlapi.RecommendRequest{
			CropName: body.CropName,
			Location: body.Location,
			Month:    body.Month,
			AreaAcre: body.AreaAcre,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, recommendation)
	}
}

// Trends proxies a historical price trend lookup to the ML service.
func Trends(client *mlapi.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cropName := strings.TrimSpace(r.URL.Query().Get("crop"))
		if cropName == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "crop query parameter is required"))
			return
		}

		points, err := client.Trends(r.Context(), cropName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}
