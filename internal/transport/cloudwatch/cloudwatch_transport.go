package cloudwatch

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
	"github.com/spyglass-dev/spyglass/internal/transport"
	"go.uber.org/zap"
)

// TransportImpl adapts the CloudWatch Logs API to the LogTransport contract.
// FilterLogEvents backs stream mode; StartQuery and GetQueryResults back the
// asynchronous query mode.
type TransportImpl struct {
	api    cloudwatchlogsiface.CloudWatchLogsAPI
	logger *zap.Logger
}

func NewTransportImpl(
	api cloudwatchlogsiface.CloudWatchLogsAPI,
	logger *zap.Logger,
) *TransportImpl {
	return &TransportImpl{
		api:    api,
		logger: logger,
	}
}

func (t *TransportImpl) FilterEvents(
	ctx context.Context,
	source string,
	pattern *string,
	startMs int64,
	endMs int64,
	limit int64,
) ([]transport.LogEvent, error) {
	input := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(source),
		StartTime:    aws.Int64(startMs),
		EndTime:      aws.Int64(endMs),
		Limit:        aws.Int64(limit),
	}
	if pattern != nil {
		input.FilterPattern = pattern
	}
	output, err := t.api.FilterLogEventsWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to filter log events: %w", err)
	}
	events := make([]transport.LogEvent, len(output.Events))
	for i, event := range output.Events {
		events[i] = transport.LogEvent{
			EventId:         aws.StringValue(event.EventId),
			TimestampMs:     aws.Int64Value(event.Timestamp),
			Message:         aws.StringValue(event.Message),
			IngestionTimeMs: aws.Int64Value(event.IngestionTime),
		}
	}
	return events, nil
}

func (t *TransportImpl) SubmitQuery(
	ctx context.Context,
	source string,
	pipelineText string,
	startSec int64,
	endSec int64,
) (string, error) {
	output, err := t.api.StartQueryWithContext(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(source),
		QueryString:  aws.String(pipelineText),
		StartTime:    aws.Int64(startSec),
		EndTime:      aws.Int64(endSec),
	})
	if err != nil {
		return "", fmt.Errorf("failed to start query: %w", err)
	}
	return aws.StringValue(output.QueryId), nil
}

func (t *TransportImpl) PollQuery(
	ctx context.Context,
	jobId string,
) (transport.PollResult, error) {
	output, err := t.api.GetQueryResultsWithContext(ctx, &cloudwatchlogs.GetQueryResultsInput{
		QueryId: aws.String(jobId),
	})
	if err != nil {
		return transport.PollResult{}, fmt.Errorf("failed to get query results: %w", err)
	}
	result := transport.PollResult{
		Status: mapQueryStatus(aws.StringValue(output.Status)),
	}
	if len(output.Results) > 0 {
		result.Rows = make([][]transport.ResultField, len(output.Results))
		for i, row := range output.Results {
			fields := make([]transport.ResultField, len(row))
			for j, field := range row {
				fields[j] = transport.ResultField{
					Field: aws.StringValue(field.Field),
					Value: aws.StringValue(field.Value),
				}
			}
			result.Rows[i] = fields
		}
	}
	return result, nil
}

func mapQueryStatus(status string) transport.JobStatus {
	switch status {
	case cloudwatchlogs.QueryStatusScheduled:
		return transport.JobScheduled
	case cloudwatchlogs.QueryStatusRunning:
		return transport.JobRunning
	case cloudwatchlogs.QueryStatusComplete:
		return transport.JobComplete
	case cloudwatchlogs.QueryStatusFailed, cloudwatchlogs.QueryStatusTimeout:
		return transport.JobFailed
	case cloudwatchlogs.QueryStatusCancelled:
		return transport.JobCancelled
	default:
		return transport.JobUnknown
	}
}
