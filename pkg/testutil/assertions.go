package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// DecodeResponse asserts the recorded status and decodes the JSON body into out.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder, status int, out any) {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
}

// AssertErrorResponse asserts an {"error": ...} body with the given status
// whose message contains expected.
func AssertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, status int, expected string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	DecodeResponse(t, rec, status, &body)
	assert.Contains(t, body.Error, expected)
}
