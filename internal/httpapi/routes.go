package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "giftsgiver/internal/common/errors"
	"giftsgiver/internal/common/logger"
	"giftsgiver/internal/common/observability"
	"giftsgiver/internal/ebay"
	"giftsgiver/internal/suggest"
)

// Searcher is the slice of the eBay client the handlers need.
type Searcher interface {
	Search(ctx context.Context, q string, priceMin, priceMax *float64, limit int) ([]ebay.Item, error)
}

// API wires the suggestion handlers onto a router.
type API struct {
	searcher Searcher
	limit    int
	validate *validator.Validate
	logger   logger.Logger
	obs      *observability.Observability
}

func NewAPI(searcher Searcher, limit int, log logger.Logger, obs *observability.Observability) *API {
	return &API{
		searcher: searcher,
		limit:    limit,
		validate: validator.New(),
		logger:   log.WithFields(map[string]interface{}{"component": "httpapi"}),
		obs:      obs,
	}
}

// RegisterRoutes mounts all endpoints and middleware on r.
func (a *API) RegisterRoutes(r *mux.Router) {
	r.Use(RequestID, CORS, Instrument(a.logger, a.obs))

	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/suggest", a.handleSuggest).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/ghl/suggest", a.handleGHLSuggest).Methods(http.MethodPost, http.MethodOptions)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleSuggest accepts the enveloped web-form payload.
func (a *API) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, r, apperrors.NewValidationError("request body is not valid JSON: "+err.Error()))
		return
	}
	if err := a.validate.Struct(req); err != nil {
		a.writeError(w, r, apperrors.NewValidationError("payload field is required"))
		return
	}

	a.respond(w, r, req.Payload, "")
}

// handleGHLSuggest accepts the raw CRM webhook body: the questionnaire
// fields arrive at the top level, without an envelope.
func (a *API) handleGHLSuggest(w http.ResponseWriter, r *http.Request) {
	var form map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		a.writeError(w, r, apperrors.NewValidationError("webhook body is not a JSON object: "+err.Error()))
		return
	}
	if form == nil {
		a.writeError(w, r, apperrors.NewValidationError("webhook body is empty"))
		return
	}

	a.respond(w, r, form, "ghl webhook")
}

// respond runs the shared pipeline: build the query, search, reply.
func (a *API) respond(w http.ResponseWriter, r *http.Request, form map[string]interface{}, note string) {
	query := suggest.BuildQuery(form)

	a.logger.Info("query built", map[string]interface{}{
		"q":         query.Q,
		"priceMin":  query.PriceMin,
		"priceMax":  query.PriceMax,
		"requestId": r.Header.Get(requestIDHeader),
	})

	items, err := a.searcher.Search(r.Context(), query.Q, query.PriceMin, query.PriceMax, a.limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SuggestionResponse{
		OK:    true,
		Query: query,
		Items: items,
		Note:  note,
	})
}

// writeError maps an error to a status code and a short client-facing
// body. Full details only go to the log.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	code := ""
	message := "internal server error"
	if se := apperrors.AsStandardError(err); se != nil {
		code = string(se.Code)
		message = se.Message
	}

	a.logger.Error("request failed", map[string]interface{}{
		"status":    status,
		"error":     err.Error(),
		"requestId": r.Header.Get(requestIDHeader),
	})

	writeJSON(w, status, errorResponse{OK: false, Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
