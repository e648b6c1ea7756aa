package router

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spyglass-dev/spyglass/internal/query_engine/stream"
	"github.com/spyglass-dev/spyglass/internal/query_server/handler"
	"github.com/spyglass-dev/spyglass/internal/query_server/service"
	"go.uber.org/zap"
)

func CreateRouter(
	ctx context.Context,
	streamFetcher stream.StreamFetcher,
	runManager service.RunManager,
	defaultStreamLimit int64,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/stream", handler.StreamHandler(
			ctx,
			streamFetcher,
			defaultStreamLimit,
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/query", handler.StartQueryHandler(
			ctx,
			runManager,
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/query/{id}", handler.QueryRunHandler(
			runManager,
			logger,
		),
	).Methods("GET")

	r.Handle(
		"/query/{id}", handler.CancelQueryHandler(
			runManager,
			logger,
		),
	).Methods("DELETE")

	return r
}
