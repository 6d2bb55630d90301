package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHandleCreateRule_Unauthenticated(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreateRule, http.MethodPost, "/rules", map[string]string{}, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCreateRule_InvalidBody(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreateRule, http.MethodPost, "/rules", []byte("{not json"), uuid.New())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", errorMessage(t, w))
}

func TestHandleCreateRule_MissingFields(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreateRule, http.MethodPost, "/rules", map[string]string{
		"title": "Data retention limits",
	}, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := errorMessage(t, w)
	assert.Contains(t, msg, "RuleID")
	assert.Contains(t, msg, "Statement")
}

func TestHandleCreateRule_InvalidPriority(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreateRule, http.MethodPost, "/rules", map[string]string{
		"rule_id":   "GOV-001",
		"title":     "Data retention limits",
		"statement": "Customer records must be deleted after 7 years.",
		"priority":  "urgent",
	}, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "Priority")
}

func TestHandleGetRule_InvalidID(t *testing.T) {
	s := newValidationTestServer()

	req := httptest.NewRequest(http.MethodGet, "/rules/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetRule(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid rule id", errorMessage(t, w))
}

func TestHandleUpdateRule_InvalidStatus(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, func(w http.ResponseWriter, r *http.Request) {
		r.SetPathValue("id", uuid.New().String())
		s.handleUpdateRule(w, r)
	}, http.MethodPut, "/rules/x", map[string]string{"status": "retired"}, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "Status")
}

func TestHandleDeleteRule_InvalidID(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, func(w http.ResponseWriter, r *http.Request) {
		r.SetPathValue("id", "nope")
		s.handleDeleteRule(w, r)
	}, http.MethodDelete, "/rules/nope", nil, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRuleLineage_InvalidID(t *testing.T) {
	s := newValidationTestServer()

	req := httptest.NewRequest(http.MethodGet, "/rules/bad/lineage", nil)
	req.SetPathValue("id", "bad")
	w := httptest.NewRecorder()

	s.handleRuleLineage(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
