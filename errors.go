package fetchpipe

import (
	"bytes"
	"fmt"
)

// Kind identifies one failure class in the pipeline's closed error taxonomy.
// Every error crossing the pipeline boundary carries exactly one Kind.
type Kind int

const (
	// KindOther wraps an uncategorized transport or system error.
	KindOther Kind = iota
	// KindBadData marks a response whose body was required but absent or unusable.
	KindBadData
	// KindDecode marks a typed decode failure; carries the decode error and source bytes.
	KindDecode
	// KindInvalidURL marks a malformed resource locator.
	KindInvalidURL
	// KindNoStatusCode marks a completion without any HTTP status line.
	KindNoStatusCode
	// KindBadStatusCode marks a status code outside the request's acceptable set.
	KindBadStatusCode
	// KindNullData marks a body that was the literal JSON null, distinct from absence.
	KindNullData
	// KindUnspecified is the escape hatch for precondition failures.
	KindUnspecified
	// KindGraphQL marks a GraphQL error container returned in an otherwise
	// acceptable response.
	KindGraphQL
)

// String returns the kind's name for logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindBadData:
		return "bad_data"
	case KindDecode:
		return "decode"
	case KindInvalidURL:
		return "invalid_url"
	case KindNoStatusCode:
		return "no_status_code"
	case KindBadStatusCode:
		return "bad_status_code"
	case KindNullData:
		return "null_data"
	case KindUnspecified:
		return "unspecified"
	case KindGraphQL:
		return "graphql"
	default:
		return "unknown"
	}
}

// GraphQLErrorLocation pinpoints a GraphQL error within the source document.
type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError is one entry of a GraphQL response's errors list.
type GraphQLError struct {
	Message   string                 `json:"message"`
	Locations []GraphQLErrorLocation `json:"locations,omitempty"`
}

// Error is the pipeline's error type. Kind selects the failure class; the
// remaining fields carry that kind's diagnostic payload and are zero for
// kinds that do not use them.
type Error struct {
	Kind Kind

	// Cause is the wrapped underlying error (KindOther, KindDecode).
	Cause error
	// SourceData is the raw bytes involved in the failure, when any were
	// received (KindBadData, KindDecode, KindBadStatusCode).
	SourceData []byte
	// SourceString is the offending input text (KindInvalidURL).
	SourceString string
	// StatusCode is the rejected HTTP status (KindBadStatusCode).
	StatusCode int
	// Reason describes a precondition failure (KindUnspecified).
	Reason string
	// GraphQLErrors is the decoded errors list (KindGraphQL).
	GraphQLErrors []GraphQLError
}

func invalidURLError(raw string) *Error {
	return &Error{Kind: KindInvalidURL, SourceString: raw}
}

func unspecifiedError(reason string) *Error {
	return &Error{Kind: KindUnspecified, Reason: reason}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindOther:
		return fmt.Sprintf("fetchpipe: %v", e.Cause)
	case KindBadData:
		return "fetchpipe: response body absent or unusable"
	case KindDecode:
		return fmt.Sprintf("fetchpipe: decoding response failed: %v", e.Cause)
	case KindInvalidURL:
		return fmt.Sprintf("fetchpipe: invalid url %q", e.SourceString)
	case KindNoStatusCode:
		return "fetchpipe: response carried no status code"
	case KindBadStatusCode:
		return fmt.Sprintf("fetchpipe: unacceptable status code %d", e.StatusCode)
	case KindNullData:
		return "fetchpipe: response body was literal null"
	case KindUnspecified:
		if e.Reason != "" {
			return fmt.Sprintf("fetchpipe: %s", e.Reason)
		}
		return "fetchpipe: unspecified error"
	case KindGraphQL:
		if len(e.GraphQLErrors) > 0 {
			return fmt.Sprintf("fetchpipe: graphql error: %s", e.GraphQLErrors[0].Message)
		}
		return "fetchpipe: graphql error"
	default:
		return "fetchpipe: unknown error"
	}
}

// Unwrap returns the underlying cause, if the kind carries one.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches two *Error values by Kind, enabling errors.Is against a bare
// &Error{Kind: ...} target.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Equal reports whether two errors are the same kind with the same diagnostic
// payload. Wrapped causes compare by their text, since arbitrary errors are
// not otherwise comparable.
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case KindOther:
		return errorText(e.Cause) == errorText(other.Cause)
	case KindBadData:
		return bytes.Equal(e.SourceData, other.SourceData)
	case KindDecode:
		return errorText(e.Cause) == errorText(other.Cause) &&
			bytes.Equal(e.SourceData, other.SourceData)
	case KindInvalidURL:
		return e.SourceString == other.SourceString
	case KindBadStatusCode:
		return e.StatusCode == other.StatusCode &&
			bytes.Equal(e.SourceData, other.SourceData)
	case KindUnspecified:
		return e.Reason == other.Reason
	case KindGraphQL:
		if len(e.GraphQLErrors) != len(other.GraphQLErrors) {
			return false
		}
		for i := range e.GraphQLErrors {
			if e.GraphQLErrors[i].Message != other.GraphQLErrors[i].Message {
				return false
			}
		}
		return true
	default:
		// Payload-free kinds (NoStatusCode, NullData) compare by kind alone.
		return true
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
