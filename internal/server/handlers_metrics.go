package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
	"github.com/govgate/govgate/internal/server/middleware"
)

type createMetricRequest struct {
	GovernanceRuleID uuid.UUID      `json:"governance_rule_id" validate:"required"`
	CodeArtifactID   *uuid.UUID     `json:"code_artifact_id"`
	TestSuiteID      *uuid.UUID     `json:"test_suite_id"`
	MetricType       string         `json:"metric_type" validate:"required,oneof=prompt_effectiveness rule_adherence code_quality test_coverage"`
	Score            *int           `json:"score" validate:"required,min=0,max=100"`
	EvaluatedBy      string         `json:"evaluated_by" validate:"required,min=1,max=64"`
	Details          map[string]any `json:"details"`
}

// handleCreateMetric records a quality score for generated output. Score
// uses a pointer so an explicit zero passes validation. evaluated_by names
// the evaluation tool supplied by the caller, not the authenticated actor.
func (s *Server) handleCreateMetric(w http.ResponseWriter, r *http.Request) {
	_, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	metric, err := s.db.CreateEvaluationMetric(r.Context(), &db.EvaluationMetricCreateInput{
		GovernanceRuleID: req.GovernanceRuleID,
		CodeArtifactID:   req.CodeArtifactID,
		TestSuiteID:      req.TestSuiteID,
		MetricType:       req.MetricType,
		Score:            *req.Score,
		Details:          req.Details,
		EvaluatedBy:      req.EvaluatedBy,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, metric)
}

// handleListMetrics lists metrics, optionally filtered by rule
func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	var (
		metrics []db.EvaluationMetric
		err     error
	)
	if ruleParam := r.URL.Query().Get("rule_id"); ruleParam != "" {
		ruleID, parseErr := uuid.Parse(ruleParam)
		if parseErr != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid rule_id filter")
			return
		}
		metrics, err = s.db.GetEvaluationMetricsByRuleID(r.Context(), ruleID)
	} else {
		metrics, err = s.db.GetEvaluationMetrics(r.Context())
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if metrics == nil {
		metrics = []db.EvaluationMetric{}
	}
	s.jsonResponse(w, http.StatusOK, metrics)
}
