package cloudwatch

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
	"github.com/spyglass-dev/spyglass/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloudWatchLogsAPI struct {
	cloudwatchlogsiface.CloudWatchLogsAPI
	filterInput   *cloudwatchlogs.FilterLogEventsInput
	filterOutput  *cloudwatchlogs.FilterLogEventsOutput
	filterErr     error
	startInput    *cloudwatchlogs.StartQueryInput
	startOutput   *cloudwatchlogs.StartQueryOutput
	startErr      error
	resultsInput  *cloudwatchlogs.GetQueryResultsInput
	resultsOutput *cloudwatchlogs.GetQueryResultsOutput
	resultsErr    error
}

func (f *fakeCloudWatchLogsAPI) FilterLogEventsWithContext(
	_ aws.Context,
	input *cloudwatchlogs.FilterLogEventsInput,
	_ ...request.Option,
) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	f.filterInput = input
	return f.filterOutput, f.filterErr
}

func (f *fakeCloudWatchLogsAPI) StartQueryWithContext(
	_ aws.Context,
	input *cloudwatchlogs.StartQueryInput,
	_ ...request.Option,
) (*cloudwatchlogs.StartQueryOutput, error) {
	f.startInput = input
	return f.startOutput, f.startErr
}

func (f *fakeCloudWatchLogsAPI) GetQueryResultsWithContext(
	_ aws.Context,
	input *cloudwatchlogs.GetQueryResultsInput,
	_ ...request.Option,
) (*cloudwatchlogs.GetQueryResultsOutput, error) {
	f.resultsInput = input
	return f.resultsOutput, f.resultsErr
}

func TestFilterEvents(t *testing.T) {
	logger := zap.NewNop()

	t.Run("maps events and forwards the window and limit", func(t *testing.T) {
		api := &fakeCloudWatchLogsAPI{
			filterOutput: &cloudwatchlogs.FilterLogEventsOutput{
				Events: []*cloudwatchlogs.FilteredLogEvent{
					{
						EventId:       aws.String("e1"),
						Timestamp:     aws.Int64(1000),
						Message:       aws.String("hello"),
						IngestionTime: aws.Int64(1500),
					},
				},
			},
		}
		tp := NewTransportImpl(api, logger)

		events, err := tp.FilterEvents(context.Background(), "app-logs", nil, 100, 200, 50)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, transport.LogEvent{
			EventId:         "e1",
			TimestampMs:     1000,
			Message:         "hello",
			IngestionTimeMs: 1500,
		}, events[0])
		assert.Equal(t, "app-logs", aws.StringValue(api.filterInput.LogGroupName))
		assert.Equal(t, int64(100), aws.Int64Value(api.filterInput.StartTime))
		assert.Equal(t, int64(200), aws.Int64Value(api.filterInput.EndTime))
		assert.Equal(t, int64(50), aws.Int64Value(api.filterInput.Limit))
		assert.Nil(t, api.filterInput.FilterPattern)
	})

	t.Run("an optional pattern is forwarded", func(t *testing.T) {
		api := &fakeCloudWatchLogsAPI{filterOutput: &cloudwatchlogs.FilterLogEventsOutput{}}
		tp := NewTransportImpl(api, logger)
		pattern := "timeout"

		_, err := tp.FilterEvents(context.Background(), "app-logs", &pattern, 0, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "timeout", aws.StringValue(api.filterInput.FilterPattern))
	})

	t.Run("API failures are wrapped", func(t *testing.T) {
		upstream := errors.New("throttled")
		api := &fakeCloudWatchLogsAPI{filterErr: upstream}
		tp := NewTransportImpl(api, logger)

		_, err := tp.FilterEvents(context.Background(), "app-logs", nil, 0, 1, 10)
		assert.ErrorIs(t, err, upstream)
	})
}

func TestSubmitQuery(t *testing.T) {
	logger := zap.NewNop()

	t.Run("starts a query and returns its id", func(t *testing.T) {
		api := &fakeCloudWatchLogsAPI{
			startOutput: &cloudwatchlogs.StartQueryOutput{QueryId: aws.String("q-1")},
		}
		tp := NewTransportImpl(api, logger)

		jobId, err := tp.SubmitQuery(context.Background(), "app-logs", "fields @message", 10, 20)
		require.NoError(t, err)
		assert.Equal(t, "q-1", jobId)
		assert.Equal(t, "fields @message", aws.StringValue(api.startInput.QueryString))
		assert.Equal(t, int64(10), aws.Int64Value(api.startInput.StartTime))
		assert.Equal(t, int64(20), aws.Int64Value(api.startInput.EndTime))
	})

	t.Run("API failures are wrapped", func(t *testing.T) {
		api := &fakeCloudWatchLogsAPI{startErr: errors.New("access denied")}
		tp := NewTransportImpl(api, logger)

		_, err := tp.SubmitQuery(context.Background(), "app-logs", "fields @message", 10, 20)
		assert.Error(t, err)
	})
}

func TestPollQuery(t *testing.T) {
	logger := zap.NewNop()

	t.Run("maps a complete observation with rows", func(t *testing.T) {
		api := &fakeCloudWatchLogsAPI{
			resultsOutput: &cloudwatchlogs.GetQueryResultsOutput{
				Status: aws.String(cloudwatchlogs.QueryStatusComplete),
				Results: [][]*cloudwatchlogs.ResultField{
					{
						{Field: aws.String("@message"), Value: aws.String("m1")},
					},
				},
			},
		}
		tp := NewTransportImpl(api, logger)

		result, err := tp.PollQuery(context.Background(), "q-1")
		require.NoError(t, err)
		assert.Equal(t, transport.JobComplete, result.Status)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, transport.ResultField{Field: "@message", Value: "m1"}, result.Rows[0][0])
		assert.Equal(t, "q-1", aws.StringValue(api.resultsInput.QueryId))
	})

	t.Run("status strings map onto the job status enum", func(t *testing.T) {
		cases := map[string]transport.JobStatus{
			cloudwatchlogs.QueryStatusScheduled: transport.JobScheduled,
			cloudwatchlogs.QueryStatusRunning:   transport.JobRunning,
			cloudwatchlogs.QueryStatusComplete:  transport.JobComplete,
			cloudwatchlogs.QueryStatusFailed:    transport.JobFailed,
			cloudwatchlogs.QueryStatusTimeout:   transport.JobFailed,
			cloudwatchlogs.QueryStatusCancelled: transport.JobCancelled,
			"Mystery":                           transport.JobUnknown,
		}
		for status, expected := range cases {
			assert.Equal(t, expected, mapQueryStatus(status), status)
		}
	})
}
