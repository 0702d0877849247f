package fetchpipe

import (
	"bytes"
	"context"
	"encoding/json"
)

var literalNull = []byte("null")

// decodePayload unmarshals data into v under the pipeline's decode contract:
// the literal body `null` maps to KindNullData, any other decode failure to
// KindDecode with the source bytes attached. Go's JSON decoder accepts a bare
// null without error, so the literal is probed before decoding.
func decodePayload(data []byte, v any) *Error {
	if bytes.Equal(data, literalNull) {
		return &Error{Kind: KindNullData}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Kind: KindDecode, Cause: err, SourceData: data}
	}
	return nil
}

// FetchTyped is the level-2 pipeline entry: it runs FetchData and decodes the
// resulting bytes into T. Failures from the lower levels pass through without
// being reinterpreted as decode failures. It is a package-level function
// because methods cannot introduce type parameters.
func FetchTyped[T any](ctx context.Context, c *Client, req *Request, useCache bool) *TypedCall[T] {
	inner := c.FetchData(ctx, req, useCache)
	tc := &TypedCall[T]{done: make(chan struct{}), inner: inner}

	resolve := func(res Result) {
		defer close(tc.done)
		if res.Err != nil {
			tc.err = res.Err
			return
		}
		var value T
		if derr := decodePayload(res.Data, &value); derr != nil {
			c.recordDecodeFailure(derr)
			tc.err = derr
			return
		}
		tc.value = value
	}

	select {
	case <-inner.Done():
		resolve(inner.Result())
		return tc
	default:
	}

	go func() {
		resolve(inner.Result())
	}()
	return tc
}
