package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHandleCreatePipelineRun_Unauthenticated(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreatePipelineRun, http.MethodPost, "/pipeline-runs", map[string]any{}, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCreatePipelineRun_MissingIDs(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreatePipelineRun, http.MethodPost, "/pipeline-runs", map[string]any{
		"code_artifact_id": uuid.New(),
	}, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "TestSuiteID")
}

func TestHandleCreatePipelineRun_InvalidBody(t *testing.T) {
	s := newValidationTestServer()

	w := doJSON(t, s.handleCreatePipelineRun, http.MethodPost, "/pipeline-runs", []byte("{"), uuid.New())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetPipelineRun_InvalidID(t *testing.T) {
	s := newValidationTestServer()

	req := httptest.NewRequest(http.MethodGet, "/pipeline-runs/bad", nil)
	req.SetPathValue("id", "bad")
	w := httptest.NewRecorder()

	s.handleGetPipelineRun(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdatePipelineRunStatus_InvalidID(t *testing.T) {
	s := newValidationTestServer()

	req := httptest.NewRequest(http.MethodPut, "/pipeline-runs/bad/status", strings.NewReader(`{"status":"failed"}`))
	req.SetPathValue("id", "bad")
	w := httptest.NewRecorder()

	s.handleUpdatePipelineRunStatus(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdatePipelineRunStatus_UnknownStatus(t *testing.T) {
	s := newValidationTestServer()

	for _, status := range []string{"", "cancelled", "PASSED"} {
		req := httptest.NewRequest(http.MethodPut, "/pipeline-runs/x/status",
			strings.NewReader(`{"status":"`+status+`"}`))
		req.SetPathValue("id", uuid.NewString())
		w := httptest.NewRecorder()

		s.handleUpdatePipelineRunStatus(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "status %q should be rejected", status)
		assert.Contains(t, errorMessage(t, w), "Status")
	}
}
