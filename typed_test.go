package fetchpipe

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payloadA struct {
	A int `json:"a"`
}

func TestFetchTypedEndToEnd(t *testing.T) {
	mock := NewMockTransport(200, []byte(`{"a":1}`))
	client := New(WithTransport(mock))
	req := mustRequest(t, http.MethodGet, "https://api.example.com/a")

	// Raw fetch populates the cache.
	res := client.Fetch(context.Background(), req, true).Result()
	require.NoError(t, res.Err)
	assert.Equal(t, []byte(`{"a":1}`), res.Data)

	cached, ok := client.Cache().Get(req.CacheKey())
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), cached)

	// The decode fetch is served from the cache: no second dispatch.
	value, err := FetchTyped[payloadA](context.Background(), client, req, true).Result()
	require.NoError(t, err)
	assert.Equal(t, payloadA{A: 1}, value)
	assert.Equal(t, 1, mock.Calls())
}

func TestFetchTypedLiteralNull(t *testing.T) {
	mock := NewMockTransport(200, []byte(`null`))
	client := New(WithTransport(mock))
	req := mustRequest(t, http.MethodGet, "https://api.example.com/null")

	_, err := FetchTyped[payloadA](context.Background(), client, req, false).Result()
	perr := pipelineError(t, err)
	assert.Equal(t, KindNullData, perr.Kind)
}

func TestFetchTypedMalformedBody(t *testing.T) {
	body := []byte(`{invalid json`)
	mock := NewMockTransport(200, body)
	client := New(WithTransport(mock))
	req := mustRequest(t, http.MethodGet, "https://api.example.com/broken")

	_, err := FetchTyped[payloadA](context.Background(), client, req, false).Result()
	perr := pipelineError(t, err)
	assert.Equal(t, KindDecode, perr.Kind)
	assert.Equal(t, body, perr.SourceData)
	assert.Error(t, perr.Unwrap())
}

func TestFetchTypedLowerFailurePassesThrough(t *testing.T) {
	mock := NewMockTransport(404, []byte("not found"))
	client := New(WithTransport(mock))
	req := mustRequest(t, http.MethodGet, "https://api.example.com/missing")

	_, err := FetchTyped[payloadA](context.Background(), client, req, false).Result()
	perr := pipelineError(t, err)
	assert.Equal(t, KindBadStatusCode, perr.Kind, "transport failures are not reinterpreted as decode failures")
	assert.Equal(t, 404, perr.StatusCode)
}

func TestFetchTypedEmptyBodyIsBadData(t *testing.T) {
	mock := NewMockTransport(200, nil)
	client := New(WithTransport(mock))
	req := mustRequest(t, http.MethodGet, "https://api.example.com/empty")

	_, err := FetchTyped[payloadA](context.Background(), client, req, false).Result()
	perr := pipelineError(t, err)
	assert.Equal(t, KindBadData, perr.Kind)
}

func TestDecodePayloadNullVsMalformed(t *testing.T) {
	var v payloadA

	perr := decodePayload([]byte("null"), &v)
	require.NotNil(t, perr)
	assert.Equal(t, KindNullData, perr.Kind)

	perr = decodePayload([]byte("nullx"), &v)
	require.NotNil(t, perr)
	assert.Equal(t, KindDecode, perr.Kind)
	assert.Equal(t, []byte("nullx"), perr.SourceData)

	assert.Nil(t, decodePayload([]byte(`{"a":7}`), &v))
	assert.Equal(t, 7, v.A)
}

func TestGetJSON(t *testing.T) {
	mock := NewMockTransport(200, []byte(`{"a":42}`))
	client := New(WithTransport(mock))

	var v payloadA
	require.NoError(t, client.GetJSON(context.Background(), "https://api.example.com/a", &v, false))
	assert.Equal(t, 42, v.A)

	err := client.GetJSON(context.Background(), "::bad", &v, false)
	perr := pipelineError(t, err)
	assert.Equal(t, KindInvalidURL, perr.Kind)
}
