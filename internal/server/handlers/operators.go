package handlers

import (
	"fmt"
	"net/http"

	"github.com/agentstation/carriermap/internal/server/response"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/logging"
	"github.com/agentstation/carriermap/pkg/operators"
)

// HandleOperators handles GET /api/operators.
// The optional country query parameter restricts the list to one ISO2 code.
// A missing artifact is served as an empty list.
func (h *Handlers) HandleOperators(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	collection, hit, err := h.operators.Get()
	switch {
	case errors.IsNotFound(err):
		logger.Warn().Str("path", h.artifactPath).Msg("Operators file not found")
		response.OK(w, operators.Collection{})
		return
	case err != nil:
		logger.Error().Err(err).Msg("Error reading operators file")
		response.InternalError(w, "Failed to load operators data", err, h.verbose)
		return
	case hit:
		logger.Debug().Msg("Serving operators from cache")
	}

	if country := r.URL.Query().Get("country"); country != "" {
		collection = collection.FilterCountry(country)
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.operators.TTL().Seconds())))
	response.OK(w, collection)
}
