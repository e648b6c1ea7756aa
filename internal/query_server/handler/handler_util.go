package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spyglass-dev/spyglass/internal/query_engine/timerange"
	"github.com/spyglass-dev/spyglass/internal/query_server/service"
	"github.com/spyglass-dev/spyglass/internal/transport"
	"go.uber.org/zap"
)

var ErrUnknownSelector = errors.New("unknown time selector")

func HttpError(w http.ResponseWriter, message string, code int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(ErrorMessage{Message: message})
	if err != nil {
		logger.Error("Error encountered when encoding error message", zap.Error(err))
	}
}

func toSelector(dto TimeSelectorDTO) (timerange.Selector, error) {
	switch dto.Mode {
	case "relative":
		switch dto.Window {
		case "1h":
			return timerange.Relative(timerange.Window1h), nil
		case "6h":
			return timerange.Relative(timerange.Window6h), nil
		case "24h":
			return timerange.Relative(timerange.Window24h), nil
		default:
			return timerange.Selector{}, fmt.Errorf(
				"%w: unsupported relative window %q", ErrUnknownSelector, dto.Window,
			)
		}
	case "all":
		return timerange.AllTime(), nil
	case "custom":
		if dto.Start == "" || dto.End == "" {
			return timerange.Selector{}, fmt.Errorf(
				"%w: custom mode requires start and end", ErrUnknownSelector,
			)
		}
		return timerange.Custom(dto.Start, dto.End), nil
	default:
		return timerange.Selector{}, fmt.Errorf(
			"%w: unsupported mode %q", ErrUnknownSelector, dto.Mode,
		)
	}
}

func toLogEventDTOs(events []transport.LogEvent) []LogEventDTO {
	dtos := make([]LogEventDTO, len(events))
	for i, event := range events {
		dtos[i] = LogEventDTO{
			EventId:         event.EventId,
			TimestampMs:     event.TimestampMs,
			Message:         event.Message,
			IngestionTimeMs: event.IngestionTimeMs,
		}
	}
	return dtos
}

func toQueryRunResponseDTO(snapshot service.RunSnapshot) QueryRunResponseDTO {
	dto := QueryRunResponseDTO{
		RunId:       snapshot.Id,
		Status:      string(snapshot.Status),
		RowsExpired: snapshot.RowsExpired,
		Error:       snapshot.ErrorMessage,
	}
	if snapshot.Rows != nil {
		rows := make([]map[string]string, len(snapshot.Rows))
		for i, row := range snapshot.Rows {
			rows[i] = map[string]string(row)
		}
		dto.Rows = rows
	}
	return dto
}
