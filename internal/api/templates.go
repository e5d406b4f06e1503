package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conduitiot/conduit-core/internal/template"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	templates, err := s.templates.ListByAccount(r.Context(), accountID)
	if err != nil {
		s.logger.Error("listing complex commands", "account_id", accountID, "error", err)
		writeInternalError(w, "failed to list complex commands")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"complex_commands": templates,
		"count":            len(templates),
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	templateID := chi.URLParam(r, "templateID")

	tmpl, err := s.templates.GetByID(r.Context(), accountID, templateID)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			writeNotFound(w, "complex command not found")
			return
		}
		s.logger.Error("getting complex command", "id", templateID, "error", err)
		writeInternalError(w, "failed to get complex command")
		return
	}

	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var tmpl template.Template
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	tmpl.AccountID = accountID

	if err := s.validator.Validate(r.Context(), &tmpl); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.templates.Create(r.Context(), &tmpl); err != nil {
		switch {
		case errors.Is(err, template.ErrTemplateExists):
			writeError(w, http.StatusConflict, ErrCodeConflict, "complex command already exists")
		case errors.Is(err, template.ErrInvalidTemplate):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("creating complex command", "account_id", accountID, "error", err)
			writeInternalError(w, "failed to create complex command")
		}
		return
	}

	writeJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleReplaceTemplate(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	templateID := chi.URLParam(r, "templateID")

	var tmpl template.Template
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	tmpl.ID = templateID
	tmpl.AccountID = accountID

	if err := s.validator.Validate(r.Context(), &tmpl); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.templates.Replace(r.Context(), &tmpl); err != nil {
		switch {
		case errors.Is(err, template.ErrTemplateNotFound):
			writeNotFound(w, "complex command not found")
		case errors.Is(err, template.ErrInvalidTemplate):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("replacing complex command", "id", templateID, "error", err)
			writeInternalError(w, "failed to replace complex command")
		}
		return
	}

	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	templateID := chi.URLParam(r, "templateID")

	if err := s.templates.Delete(r.Context(), accountID, templateID); err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			writeNotFound(w, "complex command not found")
			return
		}
		s.logger.Error("deleting complex command", "id", templateID, "error", err)
		writeInternalError(w, "failed to delete complex command")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
