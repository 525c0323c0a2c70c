package handlers

import (
	"net/http"
	"strconv"

	"github.com/agentstation/carriermap/internal/metrics"
	"github.com/agentstation/carriermap/internal/server/response"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/geo"
	"github.com/agentstation/carriermap/pkg/logging"
)

// HandleGeocode handles GET /api/geocode?lat=&lng=.
func (h *Handlers) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	q := r.URL.Query()

	latRaw, lngRaw := q.Get("lat"), q.Get("lng")
	if latRaw == "" || lngRaw == "" {
		h.metrics.Geocode(metrics.OutcomeInvalid)
		response.BadRequest(w, "lat and lng parameters are required")
		return
	}
	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lng, lngErr := strconv.ParseFloat(lngRaw, 64)
	if latErr != nil || lngErr != nil {
		h.metrics.Geocode(metrics.OutcomeInvalid)
		response.BadRequest(w, "lat and lng must be valid numbers")
		return
	}
	if !geo.IsValid(geo.Coordinate{Lat: lat, Lng: lng}) {
		h.metrics.Geocode(metrics.OutcomeInvalid)
		response.BadRequest(w, "Invalid coordinate range")
		return
	}

	loc, err := h.geocoder.Reverse(r.Context(), lat, lng)
	switch {
	case err == nil:
	case errors.IsTimeout(err):
		logger.Error().Err(err).Msg("Geocoding error")
		h.metrics.Geocode(metrics.OutcomeTimeout)
		response.Fail(w, http.StatusGatewayTimeout, "Geocoding service timeout")
		return
	case errors.IsNotFound(err) && !errors.IsSourceUnavailable(err):
		h.metrics.Geocode(metrics.OutcomeNotFound)
		response.OK(w, response.Error{Error: "Could not determine location"})
		return
	default:
		logger.Error().Err(err).Msg("Geocoding error")
		h.metrics.Geocode(metrics.OutcomeError)
		response.InternalError(w, "Geocoding service unavailable", err, h.verbose)
		return
	}

	h.metrics.Geocode(metrics.OutcomeFound)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	response.OK(w, loc)
}
