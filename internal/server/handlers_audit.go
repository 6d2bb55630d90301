package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
)

// handleListAudit returns the full audit trail, newest first
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lineage.AuditTrail(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []db.AuditEntry{}
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

// handleAuditByRule returns the audit entries recorded for one rule
func (s *Server) handleAuditByRule(w http.ResponseWriter, r *http.Request) {
	ruleID, err := uuid.Parse(r.PathValue("ruleId"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	entries, err := s.db.GetAuditTrailByRuleID(r.Context(), ruleID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []db.AuditEntry{}
	}
	s.jsonResponse(w, http.StatusOK, entries)
}
