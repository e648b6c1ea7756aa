package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spyglass-dev/spyglass/internal/query_server/service"
	"go.uber.org/zap"
)

// StartQueryHandler creates a handler that starts an asynchronous query run.
// @Summary Start an analytical query run against a log source.
// @Tags query
// @Accept json
// @Produce json
// @Param query body QueryRequestDTO true "The query parameters"
// @Success 202 {object} StartQueryResponseDTO "The started run"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /query [post]
func StartQueryHandler(
	ctx context.Context,
	rm service.RunManager,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequestDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}

		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		if req.Source == "" {
			HttpError(w, "Missing source", http.StatusBadRequest, logger)
			return
		}
		selector, err := toSelector(req.TimeSelector)
		if err != nil {
			logger.Error("Error encountered when converting time selector", zap.Error(err))
			HttpError(w, "Invalid time selector", http.StatusBadRequest, logger)
			return
		}

		runId, err := rm.StartQueryRun(ctx, req.Source, req.Sql, selector)
		if err != nil {
			logger.Error("Error encountered when starting query run", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		err = json.NewEncoder(w).Encode(StartQueryResponseDTO{RunId: runId})
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
		}
	}
}

// QueryRunHandler creates a handler for observing a query run.
// @Summary Get the status and, when complete, the rows of a query run.
// @Tags query
// @Produce json
// @Param id path string true "The run id"
// @Success 200 {object} QueryRunResponseDTO "The run state"
// @Failure 404 {object} ErrorMessage "Unknown run id"
// @Router /query/{id} [get]
func QueryRunHandler(
	rm service.RunManager,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runId := mux.Vars(r)["id"]
		snapshot, ok := rm.GetRun(runId)
		if !ok {
			HttpError(w, "Unknown run id", http.StatusNotFound, logger)
			return
		}
		err := json.NewEncoder(w).Encode(toQueryRunResponseDTO(snapshot))
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}

// CancelQueryHandler creates a handler that cancels an in-flight query run.
// Cancellation stops polling; the remote job is not retracted.
// @Summary Cancel an in-flight query run.
// @Tags query
// @Produce json
// @Param id path string true "The run id"
// @Success 204 "The run was cancelled"
// @Failure 404 {object} ErrorMessage "Unknown or already terminal run"
// @Router /query/{id} [delete]
func CancelQueryHandler(
	rm service.RunManager,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runId := mux.Vars(r)["id"]
		if !rm.CancelRun(runId) {
			HttpError(w, "Unknown or already terminal run", http.StatusNotFound, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
