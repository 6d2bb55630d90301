package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
	"github.com/govgate/govgate/internal/server/middleware"
)

type generateCodeRequest struct {
	GovernanceRuleID uuid.UUID   `json:"governance_rule_id" validate:"required"`
	ContextDocIDs    []uuid.UUID `json:"context_document_ids"`
}

type generateTestsRequest struct {
	CodeArtifactID uuid.UUID `json:"code_artifact_id" validate:"required"`
	Framework      string    `json:"framework" validate:"omitempty,oneof=xunit nunit"`
}

// handleGenerateCode produces a compliance class for a rule via the LLM
func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req generateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	artifact, err := s.orch.GenerateCode(r.Context(), req.GovernanceRuleID, req.ContextDocIDs, actor)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, artifact)
}

// handleListCodeArtifacts lists artifacts, optionally filtered by rule
func (s *Server) handleListCodeArtifacts(w http.ResponseWriter, r *http.Request) {
	var (
		artifacts []db.CodeArtifact
		err       error
	)
	if ruleParam := r.URL.Query().Get("rule_id"); ruleParam != "" {
		ruleID, parseErr := uuid.Parse(ruleParam)
		if parseErr != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid rule_id filter")
			return
		}
		artifacts, err = s.db.GetCodeArtifactsByRuleID(r.Context(), ruleID)
	} else {
		artifacts, err = s.db.GetCodeArtifacts(r.Context())
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if artifacts == nil {
		artifacts = []db.CodeArtifact{}
	}
	s.jsonResponse(w, http.StatusOK, artifacts)
}

func (s *Server) handleGetCodeArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid artifact id")
		return
	}

	artifact, err := s.db.GetCodeArtifactByID(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if artifact == nil {
		s.errorResponse(w, http.StatusNotFound, "code artifact not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, artifact)
}

// handleGenerateTests produces a test suite for a generated artifact
func (s *Server) handleGenerateTests(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req generateTestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	suite, err := s.orch.GenerateTests(r.Context(), req.CodeArtifactID, req.Framework, actor)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, suite)
}

func (s *Server) handleListTestSuites(w http.ResponseWriter, r *http.Request) {
	suites, err := s.db.GetTestSuites(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if suites == nil {
		suites = []db.TestSuite{}
	}
	s.jsonResponse(w, http.StatusOK, suites)
}

func (s *Server) handleGetTestSuite(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid test suite id")
		return
	}

	suite, err := s.db.GetTestSuiteByID(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if suite == nil {
		s.errorResponse(w, http.StatusNotFound, "test suite not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, suite)
}
