package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
	"github.com/govgate/govgate/internal/server/middleware"
)

type createRuleRequest struct {
	RuleID        string `json:"rule_id" validate:"required,min=1,max=100"`
	Title         string `json:"title" validate:"required,min=1,max=500"`
	Statement     string `json:"statement" validate:"required,min=1"`
	SourceOfTruth string `json:"source_of_truth" validate:"omitempty,max=1000"`
	Category      string `json:"category" validate:"omitempty,max=100"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status        string `json:"status" validate:"omitempty,oneof=draft active archived"`
}

type updateRuleRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=500"`
	Statement     *string `json:"statement" validate:"omitempty,min=1"`
	SourceOfTruth *string `json:"source_of_truth" validate:"omitempty,max=1000"`
	Category      *string `json:"category" validate:"omitempty,max=100"`
	Priority      *string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status        *string `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// handleCreateRule creates a governance rule and its rule_created audit entry
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	rule, err := s.db.CreateRule(r.Context(), &db.RuleCreateInput{
		RuleID:        req.RuleID,
		Title:         req.Title,
		Statement:     req.Statement,
		SourceOfTruth: req.SourceOfTruth,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        req.Status,
		CreatedBy:     actor,
	}, &db.AuditEntryCreateInput{
		Action: db.ActionRuleCreated,
		Actor:  actor,
		Details: map[string]any{
			"rule_id": req.RuleID,
			"title":   req.Title,
		},
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, rule)
}

// handleListRules returns all governance rules, newest first
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.db.GetRules(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if rules == nil {
		rules = []db.Rule{}
	}
	s.jsonResponse(w, http.StatusOK, rules)
}

// handleGetRule returns a single governance rule by id
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	rule, err := s.db.GetRuleByID(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if rule == nil {
		s.errorResponse(w, http.StatusNotFound, "rule not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, rule)
}

// handleUpdateRule applies a partial update and records rule_updated
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	var req updateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	rule, err := s.db.UpdateRule(r.Context(), id, &db.RuleUpdateInput{
		Title:         req.Title,
		Statement:     req.Statement,
		SourceOfTruth: req.SourceOfTruth,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        req.Status,
	}, &db.AuditEntryCreateInput{
		Action: db.ActionRuleUpdated,
		Actor:  actor,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rule)
}

// handleDeleteRule deletes a rule and records rule_deleted. Artifacts and
// audit entries referencing the rule are left in place.
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	if err := s.db.DeleteRule(r.Context(), id, &db.AuditEntryCreateInput{
		Action: db.ActionRuleDeleted,
		Actor:  actor,
	}); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRuleLineage aggregates the audit history of a rule with its
// referenced artifacts resolved
func (s *Server) handleRuleLineage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	result, err := s.lineage.ByRule(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
