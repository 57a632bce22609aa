package probe

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []Task
		expected Result
	}{
		{
			name: "mean over successes only",
			tasks: []Task{
				{ID: 1, Outcome: OutcomeSuccess, LatencyMillis: 1000},
				{ID: 2, Outcome: OutcomeFailure, LatencyMillis: 4000},
				{ID: 3, Outcome: OutcomeSuccess, LatencyMillis: 2000},
				{ID: 4, Outcome: OutcomeCancelled, LatencyMillis: 4999},
			},
			expected: Result{MeanLatencyMillis: 1500, Succeeded: 2, Failed: 1},
		},
		{
			name: "all failed is no data",
			tasks: []Task{
				{ID: 1, Outcome: OutcomeFailure, LatencyMillis: 1200},
				{ID: 2, Outcome: OutcomeFailure, LatencyMillis: 3000},
			},
			expected: Result{NoData: true, Failed: 2},
		},
		{
			name:     "single success",
			tasks:    []Task{{ID: 1, Outcome: OutcomeSuccess, LatencyMillis: 4321}},
			expected: Result{MeanLatencyMillis: 4321, Succeeded: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, aggregate(tt.tasks))
		})
	}
}

func TestResultMean(t *testing.T) {
	mean, ok := Result{MeanLatencyMillis: 2500, Succeeded: 3}.Mean()
	assert.True(t, ok)
	assert.Equal(t, 2500.0, mean)
	assert.Equal(t, "2500 ms", Result{MeanLatencyMillis: 2500, Succeeded: 3}.String())

	_, ok = Result{NoData: true, Failed: 3}.Mean()
	assert.False(t, ok)
	assert.Equal(t, "no data", Result{NoData: true}.String())
}

func TestRunStateJSON(t *testing.T) {
	id := uuid.New()

	noData := RunState{RunID: id, Phase: PhaseCompleted, Requested: 2, Result: &Result{NoData: true, Failed: 2}}
	data, err := json.Marshal(noData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"`+id.String()+`","phase":"completed","requested":2,
		"result":{"no_data":true,"succeeded":0,"failed":2}}`, string(data))

	running := RunState{RunID: id, Phase: PhaseRunning, Requested: 2}
	data, err = json.Marshal(running)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "result")
}

func TestOutcomeTerminal(t *testing.T) {
	assert.False(t, OutcomePending.Terminal())
	assert.True(t, OutcomeSuccess.Terminal())
	assert.True(t, OutcomeFailure.Terminal())
	assert.True(t, OutcomeCancelled.Terminal())
}
