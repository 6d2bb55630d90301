package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
	"github.com/govgate/govgate/internal/server/middleware"
)

type createPipelineRunRequest struct {
	CodeArtifactID uuid.UUID `json:"code_artifact_id" validate:"required"`
	TestSuiteID    uuid.UUID `json:"test_suite_id" validate:"required"`
}

// handleCreatePipelineRun executes a simulated deployment for an artifact
// and its test suite
func (s *Server) handleCreatePipelineRun(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createPipelineRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	run, err := s.sim.Run(r.Context(), req.CodeArtifactID, req.TestSuiteID, actor)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, run)
}

type updatePipelineRunStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending running passed failed blocked"`
}

// handleUpdatePipelineRunStatus sets the status of a stored run, the only
// mutation permitted once a run is recorded
func (s *Server) handleUpdatePipelineRunStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid pipeline run id")
		return
	}

	var req updatePipelineRunStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	if err := s.db.UpdatePipelineRunStatus(r.Context(), id, req.Status); err != nil {
		s.handleError(w, r, err)
		return
	}
	run, err := s.db.GetPipelineRunByID(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

func (s *Server) handleListPipelineRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.db.GetPipelineRuns(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if runs == nil {
		runs = []db.PipelineRun{}
	}
	s.jsonResponse(w, http.StatusOK, runs)
}

func (s *Server) handleGetPipelineRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid pipeline run id")
		return
	}

	run, err := s.db.GetPipelineRunByID(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "pipeline run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}
