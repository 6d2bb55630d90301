package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHandleCreateContextDocument_Unauthenticated(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreateContextDocument, http.MethodPost, "/context-documents", map[string]any{}, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCreateContextDocument_MissingFields(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreateContextDocument, http.MethodPost, "/context-documents", map[string]any{
		"title": "GDPR Article 17",
	}, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := errorMessage(t, w)
	assert.Contains(t, msg, "Type")
	assert.Contains(t, msg, "Content")
}

func TestHandleCreateContextDocument_UnknownType(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreateContextDocument, http.MethodPost, "/context-documents", map[string]any{
		"title":   "GDPR Article 17",
		"type":    "blog_post",
		"content": "Right to erasure.",
	}, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "Type")
}

func TestHandleGetContextDocument_InvalidID(t *testing.T) {
	s := newValidationTestServer()

	req := httptest.NewRequest(http.MethodGet, "/context-documents/bad", nil)
	req.SetPathValue("id", "bad")
	w := httptest.NewRecorder()

	s.handleGetContextDocument(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid document id", errorMessage(t, w))
}

func TestHandleUpdateContextDocument_InvalidID(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, func(w http.ResponseWriter, r *http.Request) {
		r.SetPathValue("id", "bad")
		s.handleUpdateContextDocument(w, r)
	}, http.MethodPut, "/context-documents/bad", map[string]any{}, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
