package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conduitiot/conduit-core/internal/command"
)

// dispatchRequest is the body of POST /accounts/{accountID}/commands.
// A batch may mix direct component commands and complex command IDs;
// the whole batch is accepted or rejected as a unit.
type dispatchRequest struct {
	Commands          []command.Request `json:"commands"`
	ComplexCommandIDs []string          `json:"complex_command_ids"`
}

func (s *Server) handleDispatchCommands(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeBadRequest(w, "account ID is required")
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Commands) == 0 && len(req.ComplexCommandIDs) == 0 {
		writeBadRequest(w, "at least one command or complex command ID is required")
		return
	}

	err := s.dispatcher.Dispatch(r.Context(), accountID, req.Commands, req.ComplexCommandIDs)
	if err != nil {
		switch {
		case errors.Is(err, command.ErrInvalidValue):
			writeError(w, http.StatusBadRequest, ErrCodeInvalidValue, err.Error())
		case errors.Is(err, command.ErrInvalidCommand):
			writeBadRequest(w, err.Error())
		case errors.Is(err, command.ErrNotFound):
			writeNotFound(w, err.Error())
		default:
			s.logger.Error("dispatching commands", "account_id", accountID, "error", err)
			writeInternalError(w, "failed to dispatch commands")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
	})
}
