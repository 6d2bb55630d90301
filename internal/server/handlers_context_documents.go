package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/govgate/govgate/internal/db"
	"github.com/govgate/govgate/internal/server/middleware"
)

type createContextDocumentRequest struct {
	Title    string         `json:"title" validate:"required,min=1,max=500"`
	Type     string         `json:"type" validate:"required,oneof=regulatory_doc adr utility_signature best_practice"`
	Content  string         `json:"content" validate:"required,min=1"`
	Tags     []string       `json:"tags" validate:"omitempty,dive,min=1,max=100"`
	Metadata map[string]any `json:"metadata"`
}

type updateContextDocumentRequest struct {
	Title    *string        `json:"title" validate:"omitempty,min=1,max=500"`
	Content  *string        `json:"content" validate:"omitempty,min=1"`
	Tags     []string       `json:"tags" validate:"omitempty,dive,min=1,max=100"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleCreateContextDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.Actor(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createContextDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	doc, err := s.db.CreateContextDocument(r.Context(), &db.ContextDocumentCreateInput{
		Title:     req.Title,
		Type:      req.Type,
		Content:   req.Content,
		Tags:      req.Tags,
		Metadata:  req.Metadata,
		CreatedBy: actor,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, doc)
}

func (s *Server) handleListContextDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.db.GetContextDocuments(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if docs == nil {
		docs = []db.ContextDocument{}
	}
	s.jsonResponse(w, http.StatusOK, docs)
}

func (s *Server) handleGetContextDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := s.db.GetContextDocumentByID(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "context document not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateContextDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document id")
		return
	}

	var req updateContextDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	doc, err := s.db.UpdateContextDocument(r.Context(), id, &db.ContextDocumentUpdateInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteContextDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := s.db.DeleteContextDocument(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
