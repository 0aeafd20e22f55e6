package request

import (
	"io"
	"net/http"
	"time"
)

// Const vars for rate limiter
const (
	DefaultHTTPTimeout = 15 * time.Second
	MaxRequestJobs     = 50
	userAgent          = "User-Agent"
	errBodyLimit       = 4096
)

// Requester struct for the request client
type Requester struct {
	HTTPClient *http.Client
	Name       string
	userAgent  string
	limiter    Limiter
	jobs       int32
}

// Item is a temp item for requests
type Item struct {
	Method        string
	Path          string
	Headers       map[string]string
	Body          io.Reader
	Result        any
	Verbose       bool
	HTTPDebugging bool
	// HeaderResponse, when non nil, receives the response headers
	HeaderResponse *http.Header
}

// Generate defines a closure for functionality outside of the requester to
// generate a new *http.Request on every attempt. This minimizes the chance of
// being outside of receive window if application rate limiting reduces outbound
// requests.
type Generate func() (*Item, error)

// RequesterOption is a function option that can be applied to configure a
// Requester when creating it.
type RequesterOption func(*Requester)
