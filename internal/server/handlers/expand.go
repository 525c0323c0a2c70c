package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/carriermap/internal/metrics"
	"github.com/agentstation/carriermap/internal/resolver"
	"github.com/agentstation/carriermap/internal/server/response"
	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/geo"
	"github.com/agentstation/carriermap/pkg/logging"
)

type expandRequest struct {
	URL any `json:"url"`
}

type expandResponse struct {
	ExpandedURL string          `json:"expandedUrl"`
	Coords      *geo.Coordinate `json:"coords,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// HandleExpand handles POST /api/expand with a body of {"url": "..."}.
func (h *Handlers) HandleExpand(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req expandRequest
	body := http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.metrics.Expand(metrics.OutcomeInvalid)
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if !present(req.URL) {
		h.metrics.Expand(metrics.OutcomeInvalid)
		response.BadRequest(w, "URL is required")
		return
	}
	raw, ok := req.URL.(string)
	if !ok {
		h.metrics.Expand(metrics.OutcomeInvalid)
		response.BadRequest(w, "URL must be a string")
		return
	}
	if _, err := resolver.Validate(raw); err != nil {
		h.metrics.Expand(metrics.OutcomeInvalid)
		response.BadRequest(w, "Invalid URL format")
		return
	}

	logger.Debug().Str("url", raw).Msg("Expanding URL")
	res, err := h.resolver.Resolve(r.Context(), raw)
	if err != nil {
		logger.Error().Err(err).Str("url", raw).Msg("URL expansion error")
		switch response.StatusFor(err) {
		case http.StatusGatewayTimeout:
			h.metrics.Expand(metrics.OutcomeTimeout)
			response.Fail(w, http.StatusGatewayTimeout, "Request timeout")
		case http.StatusNotFound:
			h.metrics.Expand(metrics.OutcomeError)
			response.NotFound(w, "URL not found")
		default:
			h.metrics.Expand(metrics.OutcomeError)
			response.InternalError(w, "Failed to process URL", err, h.verbose)
		}
		return
	}

	if !res.Found() {
		h.metrics.Expand(metrics.OutcomeNotFound)
		response.OK(w, expandResponse{ExpandedURL: res.FinalURL, Error: "Could not find coordinates"})
		return
	}
	h.metrics.Expand(metrics.OutcomeFound)
	response.OK(w, expandResponse{ExpandedURL: res.FinalURL, Coords: res.Coords})
}

// present mirrors a loose truthiness check on a decoded JSON value:
// null, false, 0 and "" count as absent.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
