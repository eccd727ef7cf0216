package mlflow

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRunStatusNames(t *testing.T) {
	names := map[RunStatus]string{
		RunStatusRunning:   "RUNNING",
		RunStatusScheduled: "SCHEDULED",
		RunStatusFinished:  "FINISHED",
		RunStatusFailed:    "FAILED",
		RunStatusKilled:    "KILLED",
	}
	for status, name := range names {
		text, err := status.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(text))
		assert.Equal(t, name, status.String())

		parsed, err := ParseRunStatus(name)
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
	assert.Len(t, RunStatuses, len(names))
}

func TestRunStatusTextRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		status := TestingRunStatusGenerator().Draw(t, "status")
		encoded, err := json.Marshal(status)
		require.NoError(t, err)
		var decoded RunStatus
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, status, decoded)
	})
}

func TestParseRunStatusIsExact(t *testing.T) {
	for _, name := range []string{"running", "Running", " RUNNING", "UNINITIALIZED", ""} {
		_, err := ParseRunStatus(name)
		var invalid *InvalidEnumError
		require.True(t, errors.As(err, &invalid), "parsing %q", name)
		assert.Equal(t, name, invalid.Value)
	}
}

func TestUninitializedIsNeverSent(t *testing.T) {
	_, err := RunStatusUninitialized.MarshalText()
	assert.Error(t, err)
	_, err = json.Marshal(RunStatus(42))
	assert.Error(t, err)
	assert.Equal(t, "UNINITIALIZED", RunStatusUninitialized.String())

	_, err = ViewTypeUninitialized.MarshalText()
	assert.Error(t, err)
}

func TestRunStatusTerminal(t *testing.T) {
	assert.False(t, RunStatusRunning.Terminal())
	assert.False(t, RunStatusScheduled.Terminal())
	assert.True(t, RunStatusFinished.Terminal())
	assert.True(t, RunStatusFailed.Terminal())
	assert.True(t, RunStatusKilled.Terminal())
	assert.False(t, RunStatusUninitialized.Terminal())
}

func TestViewTypeNames(t *testing.T) {
	for _, viewType := range []ViewType{ViewTypeActiveOnly, ViewTypeDeletedOnly, ViewTypeAll} {
		text, err := viewType.MarshalText()
		require.NoError(t, err)
		var parsed ViewType
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, viewType, parsed)
	}
	assert.Equal(t, "DELETED_ONLY", ViewTypeDeletedOnly.String())

	_, err := ParseViewType("all")
	var invalid *InvalidEnumError
	assert.True(t, errors.As(err, &invalid))
}
