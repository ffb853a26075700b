package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIClient sends requests straight to an http.Handler and keeps the
// access token of the last successful login.
type APIClient struct {
	t       *testing.T
	handler http.Handler
	Token   string
}

// NewAPIClient creates a client for handler.
func NewAPIClient(t *testing.T, handler http.Handler) *APIClient {
	return &APIClient{t: t, handler: handler}
}

// JSON sends body encoded as JSON. A nil body sends no content.
func (c *APIClient) JSON(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

// Form sends values as application/x-www-form-urlencoded.
func (c *APIClient) Form(method, path string, values url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *APIClient) do(req *http.Request) *httptest.ResponseRecorder {
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// StatusEnvelope is the {"Status": ...} body of non-list responses.
// Errors holds either a message or a field map.
type StatusEnvelope struct {
	Status bool            `json:"Status"`
	Error  string          `json:"Error,omitempty"`
	Errors json.RawMessage `json:"Errors,omitempty"`
	Token  string          `json:"Token,omitempty"`
}

// Envelope decodes a status envelope.
func Envelope(t *testing.T, w *httptest.ResponseRecorder) StatusEnvelope {
	t.Helper()

	var resp StatusEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse envelope: %s", w.Body.String())
	return resp
}

// DecodeJSON decodes the response body into T.
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// AssertOK asserts a 200 with {"Status": true}.
func AssertOK(t *testing.T, w *httptest.ResponseRecorder) StatusEnvelope {
	t.Helper()

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := Envelope(t, w)
	assert.True(t, resp.Status, w.Body.String())
	return resp
}

// AssertFail asserts the status code and {"Status": false}.
func AssertFail(t *testing.T, w *httptest.ResponseRecorder, status int) StatusEnvelope {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	resp := Envelope(t, w)
	assert.False(t, resp.Status, w.Body.String())
	return resp
}
