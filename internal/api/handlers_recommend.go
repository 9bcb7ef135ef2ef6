// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/adcompass/internal/database"
	"github.com/tomtom215/adcompass/internal/middleware"
	"github.com/tomtom215/adcompass/internal/recommend"
	"github.com/tomtom215/adcompass/internal/validation"
)

// maxBodyBytes caps a recommendation request body.
const maxBodyBytes = 64 << 10

// OptionsResponse lists the selectable values and the dashboard defaults.
type OptionsResponse struct {
	*database.Options
	Policies []recommend.Policy `json:"policies"`
	Defaults Defaults           `json:"defaults"`
}

// LookupResponse is the body of the cluster lookup endpoint.
type LookupResponse struct {
	ClusterID int                 `json:"cluster_id"`
	Selection recommend.Selection `json:"selection"`
}

// SummaryResponse combines row statistics and mapping composition.
type SummaryResponse struct {
	*recommend.Summary
	Composition *database.Composition `json:"composition"`
}

// RecommendationView is a top-K entry with display strings.
type RecommendationView struct {
	recommend.Candidate
	ShareDisplay      string `json:"share_display"`
	EfficiencyDisplay string `json:"efficiency_display"`
	ConversionDisplay string `json:"cvr_display"`
}

// RecommendationResponse wraps the engine response with display views.
type RecommendationResponse struct {
	*recommend.Response
	Recommendations []RecommendationView `json:"recommendations"`
}

// GetOptions handles GET /api/v1/options.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	opts, err := h.store.Options(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(OptionsResponse{
		Options:  opts,
		Policies: recommend.Policies,
		Defaults: h.defaults,
	})
}

// LookupCluster handles GET /api/v1/clusters/lookup.
func (h *Handler) LookupCluster(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	sel := h.selectionFromQuery(r)
	if verr := validation.ValidateStruct(&sel); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	id, err := h.recommender.ResolveCluster(r.Context(), sel)
	if err != nil {
		rw.FromError(err)
		return
	}

	rw.Success(LookupResponse{ClusterID: id, Selection: sel})
}

// ClusterSummary handles GET /api/v1/clusters/{id}/summary.
func (h *Handler) ClusterSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		rw.Error(http.StatusBadRequest, ErrCodeInvalidClusterID, "Cluster id must be a non-negative integer")
		return
	}

	rows, err := h.recommender.ClusterRows(r.Context(), id)
	if err != nil {
		rw.FromError(err)
		return
	}
	if len(rows) == 0 {
		rw.Error(http.StatusNotFound, ErrCodeNoData, "Cluster "+strconv.Itoa(id)+" has no historical rows")
		return
	}

	comp, err := h.store.ClusterComposition(r.Context(), id)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(SummaryResponse{
		Summary:     recommend.Summarize(id, rows),
		Composition: comp,
	})
}

// GetRecommendations handles GET /api/v1/recommendations. Missing
// selection fields take the dashboard defaults.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := recommend.Request{
		Selection: h.selectionFromQuery(r),
		Policy:    q.Get("policy"),
		RequestID: GetRequestIDFromRequest(r),
	}
	h.recommend(NewResponseWriter(w, r), r, req)
}

// PostRecommendations handles POST /api/v1/recommendations with a JSON
// Request body. Every selection field is required.
func (h *Handler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			rw.Error(http.StatusUnsupportedMediaType, ErrCodeUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
	}

	var req recommend.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			rw.BadRequest("Request body is empty")
			return
		}
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return
	}
	if req.RequestID == "" {
		req.RequestID = GetRequestIDFromRequest(r)
	}

	h.recommend(rw, r, req)
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) recommend(rw *ResponseWriter, r *http.Request, req recommend.Request) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	resp, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		rw.FromError(err)
		return
	}

	rw.Success(RecommendationResponse{
		Response:        resp,
		Recommendations: recommendationViews(resp.Result),
	})
}

func recommendationViews(res *recommend.Result) []RecommendationView {
	if res == nil {
		return []RecommendationView{}
	}
	views := make([]RecommendationView, 0, len(res.Top))
	for i := range res.Top {
		c := res.Top[i]
		views = append(views, RecommendationView{
			Candidate:         c,
			ShareDisplay:      recommend.FormatShare(c.Share),
			EfficiencyDisplay: recommend.FormatKPI(recommend.ColumnEfficiency, c.Predicted.Efficiency),
			ConversionDisplay: recommend.FormatKPI(recommend.ColumnConversion, c.Predicted.Conversion*100),
		})
	}
	return views
}

// selectionFromQuery reads industry, os_type and limit_type, defaulting
// each missing field.
func (h *Handler) selectionFromQuery(r *http.Request) recommend.Selection {
	q := r.URL.Query()
	pick := func(key, fallback string) string {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
		return fallback
	}
	return recommend.Selection{
		Industry:  pick("industry", h.defaults.Selection.Industry),
		OSType:    pick("os_type", h.defaults.Selection.OSType),
		LimitType: pick("limit_type", h.defaults.Selection.LimitType),
	}
}

func writeValidationError(rw *ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ValidationError(apiErr.Code, apiErr.Message, apiErr.Details)
}

// GetRequestIDFromRequest returns the id set by the RequestID middleware.
func GetRequestIDFromRequest(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}
