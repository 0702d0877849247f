package fetchpipe

import "encoding/json"

// graphQLContainer is the conventional shape of a GraphQL response body that
// carries logical errors alongside (or instead of) data.
type graphQLContainer struct {
	Errors []GraphQLError `json:"errors"`
}

// classify turns one transport completion into the pipeline's result contract.
// The precedence order is policy, not accident: status validation comes before
// error inspection, which comes before success.
//
//  1. No status metadata at all: KindNoStatusCode, regardless of body or error.
//  2. Status outside the acceptable set: KindBadStatusCode with the code and
//     whatever body arrived (API error bodies are worth keeping).
//  3. GraphQL mode and the body holds a non-empty errors list: KindGraphQL.
//     GraphQL servers conventionally answer HTTP 200 even for logical errors,
//     so this outranks a transport error.
//  4. A transport error: propagated unchanged if it is already an *Error,
//     wrapped as KindOther otherwise.
//  5. Success with the raw bytes; a nil or empty body is not an error here.
func classify(data []byte, meta *ResponseMeta, terr error, accept StatusSet, graphQLMode bool) ([]byte, *Error) {
	if meta == nil {
		return nil, &Error{Kind: KindNoStatusCode}
	}
	if !accept.Contains(meta.StatusCode) {
		return nil, &Error{Kind: KindBadStatusCode, StatusCode: meta.StatusCode, SourceData: data}
	}
	if graphQLMode && len(data) > 0 {
		var container graphQLContainer
		if err := json.Unmarshal(data, &container); err == nil && len(container.Errors) > 0 {
			return nil, &Error{Kind: KindGraphQL, GraphQLErrors: container.Errors}
		}
	}
	if terr != nil {
		if perr, ok := terr.(*Error); ok {
			return nil, perr
		}
		return nil, &Error{Kind: KindOther, Cause: terr}
	}
	return data, nil
}
