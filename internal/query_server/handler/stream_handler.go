package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/spyglass-dev/spyglass/internal/query_engine/stream"
	"go.uber.org/zap"
)

// StreamHandler creates a handler for the synchronous stream-mode fetch.
// @Summary Fetch raw log events within a time window, newest first.
// @Tags stream
// @Accept json
// @Produce json
// @Param stream body StreamRequestDTO true "The stream fetch parameters"
// @Success 200 {object} StreamResponseDTO "Matching log events"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /stream [post]
func StreamHandler(
	ctx context.Context,
	sf stream.StreamFetcher,
	defaultLimit int64,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StreamRequestDTO
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
		limit := defaultLimit
		if req.Limit != nil && *req.Limit > 0 {
			limit = *req.Limit
		}

		events, err := sf.FetchStream(ctx, req.Source, req.Pattern, selector, limit, time.Now())
		if err != nil {
			logger.Error("Error encountered when fetching stream", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}

		err = json.NewEncoder(w).Encode(StreamResponseDTO{Events: toLogEventDTOs(events)})
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}
