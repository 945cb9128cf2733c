package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/voyantra/pricing-engine/internal/app/pricing/queries/get_country_rule"
	"github.com/voyantra/pricing-engine/internal/app/pricing/queries/list_country_rules"
	"github.com/voyantra/pricing-engine/internal/app/pricing/usecases/apply_bulk"
	"github.com/voyantra/pricing-engine/internal/app/pricing/usecases/build_breakdown"
)

// Handler exposes the pricing engine over HTTP/JSON.
type Handler struct {
	breakdown *build_breakdown.Interactor
	bulk      *apply_bulk.Interactor
	getRule   *get_country_rule.Query
	listRules *list_country_rules.Query
	logger    *zap.Logger
}

// NewHandler creates a new pricing HTTP handler.
func NewHandler(
	breakdown *build_breakdown.Interactor,
	bulk *apply_bulk.Interactor,
	getRule *get_country_rule.Query,
	listRules *list_country_rules.Query,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		breakdown: breakdown,
		bulk:      bulk,
		getRule:   getRule,
		listRules: listRules,
		logger:    logger,
	}
}

// BuildBreakdown handles POST /api/v1/pricing/breakdown.
func (h *Handler) BuildBreakdown(w http.ResponseWriter, r *http.Request) {
	var req breakdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	item, party, opts, err := req.toDomain()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	result, err := h.breakdown.Execute(r.Context(), &build_breakdown.Request{
		Item:    item,
		Party:   party,
		Options: opts,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, breakdownToResponse(result))
}

// ApplyBulk handles POST /api/v1/pricing/bulk.
func (h *Handler) ApplyBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.bulk.Execute(r.Context(), &apply_bulk.Request{
		Op:        req.toDomain(),
		ChangedBy: req.ChangedBy,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	// Per-country failures ride inside a 200; only batch-fatal errors get
	// an error status.
	h.writeJSON(w, http.StatusOK, bulkToResponse(result))
}

// GetCountryRule handles GET /api/v1/pricing/rules/{countryCode}.
func (h *Handler) GetCountryRule(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "countryCode")

	dto, err := h.getRule.Execute(r.Context(), &get_country_rule.Request{CountryCode: code})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ruleToResponse(dto))
}

// ListCountryRules handles GET /api/v1/pricing/rules.
func (h *Handler) ListCountryRules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageSize := 0
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, r, http.StatusBadRequest, "invalid pageSize")
			return
		}
		pageSize = n
	}

	result, err := h.listRules.Execute(r.Context(), &list_country_rules.Request{
		Region:    q.Get("region"),
		Tier:      q.Get("tier"),
		PageSize:  pageSize,
		PageToken: q.Get("pageToken"),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := &listRulesResponse{
		Rules:         make([]*countryRuleResponse, 0, len(result.Rules)),
		NextPageToken: result.NextPageToken,
		TotalCount:    result.TotalCount,
	}
	for _, dto := range result.Rules {
		resp.Rules = append(resp.Rules, ruleToResponse(dto))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	} else {
		h.logger.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	h.writeError(w, r, status, err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
