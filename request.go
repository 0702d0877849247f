package fetchpipe

import (
	"net/http"
	"net/url"
)

// StatusSet is the set of HTTP status codes a request treats as acceptable.
// The zero value is treated as the default 200..299 range so a Request can
// never carry an empty acceptable set.
type StatusSet struct {
	from, to int // half-open [from, to); used when codes is nil
	codes    map[int]bool
}

// StatusRange returns a StatusSet accepting every code in [from, to).
func StatusRange(from, to int) StatusSet {
	if to <= from {
		to = from + 1
	}
	return StatusSet{from: from, to: to}
}

// StatusOnly returns a StatusSet accepting exactly one code.
func StatusOnly(code int) StatusSet {
	return StatusSet{codes: map[int]bool{code: true}}
}

// Statuses returns a StatusSet accepting the given codes. An empty argument
// list yields the default 200..299 set.
func Statuses(codes ...int) StatusSet {
	if len(codes) == 0 {
		return defaultStatuses()
	}
	m := make(map[int]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return StatusSet{codes: m}
}

func defaultStatuses() StatusSet {
	return StatusRange(http.StatusOK, http.StatusMultipleChoices)
}

// Contains reports whether code is acceptable. The zero value behaves as the
// default 200..299 range.
func (s StatusSet) Contains(code int) bool {
	if s.codes != nil {
		return s.codes[code]
	}
	if s.from == 0 && s.to == 0 {
		s = defaultStatuses()
	}
	return code >= s.from && code < s.to
}

// Request describes one HTTP request to run through the pipeline. It is a
// value object: build it with NewRequest and do not mutate it after handing
// it to a Client. The URL doubles as the cache key, so two requests to the
// same URL with different methods or bodies share a cache slot by design.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte

	accept StatusSet
}

// RequestOption customizes a Request at construction time.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		r.Header.Set(key, value)
	}
}

// WithBody sets the request body.
func WithBody(body []byte) RequestOption {
	return func(r *Request) {
		r.Body = body
	}
}

// WithAcceptedStatuses replaces the acceptable status set. A zero StatusSet
// falls back to the 200..299 default, preserving the non-empty invariant.
func WithAcceptedStatuses(s StatusSet) RequestOption {
	return func(r *Request) {
		r.accept = s
	}
}

// NewRequest builds a Request for the given method and URL. A URL that fails
// to parse, or one without a scheme or host, yields an *Error of KindInvalidURL.
func NewRequest(method, rawURL string, opts ...RequestOption) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, invalidURLError(rawURL)
	}
	if method == "" {
		method = http.MethodGet
	}
	req := &Request{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		accept: defaultStatuses(),
	}
	for _, opt := range opts {
		opt(req)
	}
	return req, nil
}

// AcceptedStatuses returns the request's acceptable status set.
func (r *Request) AcceptedStatuses() StatusSet {
	return r.accept
}

// CacheKey returns the key the response cache files this request under.
func (r *Request) CacheKey() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}
