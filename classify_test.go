package fetchpipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMissingStatusAlwaysWins(t *testing.T) {
	// No status metadata classifies as the missing-status kind regardless of
	// body or transport error content.
	data, perr := classify([]byte("body"), nil, errors.New("boom"), defaultStatuses(), false)
	assert.Nil(t, data)
	require.NotNil(t, perr)
	assert.Equal(t, KindNoStatusCode, perr.Kind)
}

func TestClassifyUnacceptableStatusCarriesCodeAndBody(t *testing.T) {
	meta := &ResponseMeta{StatusCode: 404}
	body := []byte(`{"error":"not found"}`)

	data, perr := classify(body, meta, errors.New("ignored"), defaultStatuses(), false)
	assert.Nil(t, data)
	require.NotNil(t, perr)
	assert.Equal(t, KindBadStatusCode, perr.Kind)
	assert.Equal(t, 404, perr.StatusCode)
	assert.Equal(t, body, perr.SourceData)
}

func TestClassifyRespectsCustomStatusSet(t *testing.T) {
	data, perr := classify([]byte("gone"), &ResponseMeta{StatusCode: 404}, nil, StatusOnly(404), false)
	require.Nil(t, perr)
	assert.Equal(t, []byte("gone"), data)

	_, perr = classify(nil, &ResponseMeta{StatusCode: 200}, nil, StatusOnly(404), false)
	require.NotNil(t, perr)
	assert.Equal(t, KindBadStatusCode, perr.Kind)
	assert.Equal(t, 200, perr.StatusCode)
}

func TestClassifyGraphQLErrorsBeatTransportError(t *testing.T) {
	meta := &ResponseMeta{StatusCode: 200}
	body := []byte(`{"errors":[{"message":"forbidden","locations":[{"line":2,"column":3}]}]}`)

	data, perr := classify(body, meta, errors.New("late transport error"), defaultStatuses(), true)
	assert.Nil(t, data)
	require.NotNil(t, perr)
	require.Equal(t, KindGraphQL, perr.Kind)
	require.Len(t, perr.GraphQLErrors, 1)
	assert.Equal(t, "forbidden", perr.GraphQLErrors[0].Message)
	require.Len(t, perr.GraphQLErrors[0].Locations, 1)
	assert.Equal(t, 2, perr.GraphQLErrors[0].Locations[0].Line)
}

func TestClassifyGraphQLModeOffIgnoresErrorContainer(t *testing.T) {
	body := []byte(`{"errors":[{"message":"forbidden"}]}`)

	data, perr := classify(body, &ResponseMeta{StatusCode: 200}, nil, defaultStatuses(), false)
	require.Nil(t, perr)
	assert.Equal(t, body, data)
}

func TestClassifyGraphQLEmptyErrorListIsSuccess(t *testing.T) {
	body := []byte(`{"errors":[],"data":{"ok":true}}`)

	data, perr := classify(body, &ResponseMeta{StatusCode: 200}, nil, defaultStatuses(), true)
	require.Nil(t, perr)
	assert.Equal(t, body, data)
}

func TestClassifyWrapsForeignTransportError(t *testing.T) {
	cause := errors.New("read: connection reset")

	_, perr := classify(nil, &ResponseMeta{StatusCode: 200}, cause, defaultStatuses(), false)
	require.NotNil(t, perr)
	assert.Equal(t, KindOther, perr.Kind)
	assert.True(t, errors.Is(perr, cause))
}

func TestClassifyPropagatesKnownErrorUnchanged(t *testing.T) {
	known := &Error{Kind: KindBadData, SourceData: []byte("partial")}

	_, perr := classify(nil, &ResponseMeta{StatusCode: 200}, known, defaultStatuses(), false)
	assert.Same(t, known, perr)
}

func TestClassifySuccessAllowsAbsentBody(t *testing.T) {
	data, perr := classify(nil, &ResponseMeta{StatusCode: 204}, nil, defaultStatuses(), false)
	require.Nil(t, perr)
	assert.Nil(t, data)
}
