package jobpipe_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhofe/jobpipe"
)

func TestStatusCode_Classification(t *testing.T) {
	testCases := []struct {
		code      jobpipe.StatusCode
		done      bool
		hasFailed bool
	}{
		{jobpipe.CodeNone, false, false},
		{jobpipe.CodeNew, false, false},
		{jobpipe.CodeScheduled, false, false},
		{jobpipe.CodeRunning, false, false},
		{jobpipe.CodeRetry, false, false},
		{jobpipe.CodeFinished, true, false},
		{jobpipe.CodeSkipped, true, false},
		{jobpipe.CodeErrorNoInput, true, true},
		{jobpipe.CodeErrorExecute, true, true},
		{jobpipe.CodeErrorDependency, true, true},
		{jobpipe.CodeErrorAborted, true, true},
		{jobpipe.CodeErrorSigterm, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.code.String(), func(t *testing.T) {
			assert.Equal(t, tc.done, tc.code.IsDone())
			assert.Equal(t, tc.hasFailed, tc.code.HasFailed())
		})
	}
}

func TestStatusCode_Names(t *testing.T) {
	assert.Equal(t, "ERROR_NO_INPUT", jobpipe.CodeErrorNoInput.String())
	assert.Equal(t, "StatusCode(42)", jobpipe.StatusCode(42).String())

	code, err := jobpipe.ParseStatusCode("SKIPPED")
	require.NoError(t, err)
	assert.Equal(t, jobpipe.CodeSkipped, code)

	_, err = jobpipe.ParseStatusCode("skipped")
	assert.Error(t, err)
}

func TestStatusCode_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]jobpipe.StatusCode{"code": jobpipe.CodeErrorSigterm})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"ERROR_SIGTERM"}`, string(data))

	var decoded struct {
		Code jobpipe.StatusCode `json:"code"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"code":"BOGUS"}`), &decoded))
}
