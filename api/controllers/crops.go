package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aviral-workprojects/krishi-connect/api/responses"
	"github.com/aviral-workprojects/krishi-connect/api/validators"
	internalcrops "github.com/aviral-workprojects/krishi-connect/internal/crops"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
)

// CreateCrop lists a new crop under the authenticated farmer.
func CreateCrop(svc internalcrops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalcrops.CropInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crop, err := svc.Create(r.Context(), farmerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, crop)
	}
}

// UpdateCrop replaces the listing fields of a crop the farmer owns.
func UpdateCrop(svc internalcrops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cropID, err := parseCropID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalcrops.CropInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crop, err := svc.Update(r.Context(), farmerID, cropID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crop)
	}
}

// DeleteCrop removes a crop the farmer owns.
func DeleteCrop(svc internalcrops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cropID, err := parseCropID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), farmerID, cropID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetCrop returns one listing by id.
func GetCrop(svc internalcrops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cropID, err := parseCropID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crop, err := svc.Get(r.Context(), cropID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crop)
	}
}

// MyCrops returns the authenticated farmer's listings.
func MyCrops(svc internalcrops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crops, err := svc.ListMine(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crops)
	}
}

// BrowseCrops searches the public catalog with optional name, location and
// price filters.
func BrowseCrops(svc internalcrops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minPrice, err := validators.ParseQueryDecimal(r, "min_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryDecimal(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := internalcrops.BrowseFilters{
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			Location: strings.TrimSpace(r.URL.Query().Get("location")),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
		}

		crops, err := svc.Browse(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crops)
	}
}

func parseCropID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "cropId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "crop id is required")
	}
	cropID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid crop id")
	}
	return cropID, nil
}
