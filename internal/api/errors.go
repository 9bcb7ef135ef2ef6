// AdCompass - Advertising Campaign Configuration Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/adcompass

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/adcompass/internal/breaker"
	"github.com/tomtom215/adcompass/internal/recommend"
)

// errorStatus maps an error to its HTTP status, error code and client
// message. Order matters: breaker rejections and timeouts arrive wrapped in
// a DataRetrievalError.
func errorStatus(err error) (status int, code, message string) {
	var (
		insufficient *recommend.InsufficientCandidatesError
		policy       *recommend.InvalidPolicyError
		degenerate   *recommend.DegenerateNormalizationError
		prediction   *recommend.PredictionError
	)

	switch {
	case errors.Is(err, recommend.ErrConfigurationNotFound):
		return http.StatusNotFound, ErrCodeNoData, "No cluster matches the selected industry, OS type and limit type"
	case errors.Is(err, recommend.ErrNoData):
		return http.StatusNotFound, ErrCodeNoData, "No configuration has enough historical support for this selection"
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity, ErrCodeInsufficient, insufficient.Error()
	case errors.As(err, &policy):
		return http.StatusBadRequest, ErrCodeInvalidPolicy, policy.Error()
	case errors.As(err, &degenerate):
		return http.StatusUnprocessableEntity, ErrCodeDegenerate, degenerate.Error()
	case breaker.IsRejection(err):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Data source temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout, "Recommendation timed out"
	case errors.Is(err, recommend.ErrDataRetrieval):
		return http.StatusBadGateway, ErrCodeDataRetrieval, "Failed to load cluster data"
	case errors.As(err, &prediction):
		return http.StatusInternalServerError, ErrCodePredictionFailed, "Prediction failed for " + string(prediction.Metric)
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"
	}
}
