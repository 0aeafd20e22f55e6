package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"sync/atomic"

	"github.com/thrasher-corp/pricetrace/encoding/json"
	"github.com/thrasher-corp/pricetrace/log"
)

// ErrUpstreamFetchFailure is returned when the transport fails, the upstream
// responds with a non success status code or the body cannot be decoded
var ErrUpstreamFetchFailure = errors.New("upstream fetch failure")

// Public request errors
var (
	ErrRequestSystemIsNil = errors.New("request system is nil")
)

var (
	errMaxRequestJobs         = errors.New("max request jobs reached")
	errRequestFunctionIsNil   = errors.New("request function is nil")
	errRequestItemNil         = errors.New("request item is nil")
	errInvalidPath            = errors.New("invalid path")
	errHeaderResponseMapIsNil = errors.New("header response map is nil")
	errHTTPClientIsNil        = errors.New("http client is nil")
)

// New returns a new Requester
func New(name string, httpRequester *http.Client, opts ...RequesterOption) (*Requester, error) {
	if httpRequester == nil {
		return nil, errHTTPClientIsNil
	}
	r := &Requester{
		HTTPClient: httpRequester,
		Name:       name,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// WithLimiter sets the rate limiter for a Requester
func WithLimiter(l Limiter) RequesterOption {
	return func(r *Requester) {
		r.limiter = l
	}
}

// WithUserAgent sets the user agent for a Requester
func WithUserAgent(ua string) RequesterOption {
	return func(r *Requester) {
		r.userAgent = ua
	}
}

// SendPayload handles sending HTTP/HTTPS requests. A failure is surfaced as is,
// no attempt is retried.
func (r *Requester) SendPayload(ctx context.Context, ep EndpointLimit, newRequest Generate) error {
	if r == nil {
		return ErrRequestSystemIsNil
	}

	if newRequest == nil {
		return errRequestFunctionIsNil
	}

	if atomic.LoadInt32(&r.jobs) >= MaxRequestJobs {
		return errMaxRequestJobs
	}

	atomic.AddInt32(&r.jobs, 1)
	err := r.doRequest(ctx, ep, newRequest)
	atomic.AddInt32(&r.jobs, -1)

	return err
}

// validateRequest validates the requester item fields
func (i *Item) validateRequest(ctx context.Context, r *Requester) (*http.Request, error) {
	if i == nil {
		return nil, errRequestItemNil
	}

	if i.Path == "" {
		return nil, errInvalidPath
	}

	if i.HeaderResponse != nil && *i.HeaderResponse == nil {
		return nil, errHeaderResponseMapIsNil
	}

	req, err := http.NewRequestWithContext(ctx, i.Method, i.Path, i.Body)
	if err != nil {
		return nil, err
	}

	for k, v := range i.Headers {
		req.Header.Add(k, v)
	}

	if r != nil && r.userAgent != "" && req.Header.Get(userAgent) == "" {
		req.Header.Add(userAgent, r.userAgent)
	}

	return req, nil
}

// doRequest performs a HTTP/HTTPS request with the supplied params
func (r *Requester) doRequest(ctx context.Context, endpoint EndpointLimit, newRequest Generate) error {
	if r.limiter != nil {
		if err := r.limiter.Limit(ctx, endpoint); err != nil {
			return err
		}
	}

	p, err := newRequest()
	if err != nil {
		return err
	}

	req, err := p.validateRequest(ctx, r)
	if err != nil {
		return err
	}

	verbose := IsVerbose(ctx, p.Verbose)
	trace := TraceID(ctx)
	if verbose {
		log.Debugf(log.RequestSys, "%s request path: %s trace: %s", r.Name, p.Path, trace)
		log.Debugf(log.RequestSys, "%s request type: %s", r.Name, p.Method)
	}

	if p.HTTPDebugging {
		// Err not evaluated due to validation check above
		dump, _ := httputil.DumpRequestOut(req, p.Body != nil)
		log.Debugf(log.RequestSys, "DumpRequest:\n%s", dump)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUpstreamFetchFailure, r.Name, p.Path, err)
	}
	defer resp.Body.Close()
	if trace != "" {
		log.Debugf(log.RequestSys, "%s %s answered %d for trace %s", r.Name, p.Path, resp.StatusCode, trace)
	}

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s reading body: %w", ErrUpstreamFetchFailure, r.Name, err)
	}

	if p.HeaderResponse != nil {
		for k, v := range resp.Header {
			(*p.HeaderResponse)[k] = v
		}
	}

	if resp.StatusCode < http.StatusOK ||
		resp.StatusCode > http.StatusAccepted {
		if len(contents) > errBodyLimit {
			contents = contents[:errBodyLimit]
		}
		return fmt.Errorf("%w: %s unsuccessful HTTP status code: %d raw response: %s",
			ErrUpstreamFetchFailure,
			r.Name,
			resp.StatusCode,
			string(contents))
	}

	if p.HTTPDebugging {
		dump, err := httputil.DumpResponse(resp, false)
		if err != nil {
			log.Errorf(log.RequestSys, "DumpResponse invalid response: %v:", err)
		}
		log.Debugf(log.RequestSys, "DumpResponse Headers (%v):\n%s", p.Path, dump)
		log.Debugf(log.RequestSys, "DumpResponse Body (%v):\n %s", p.Path, string(contents))
	}

	if verbose {
		log.Debugf(log.RequestSys,
			"HTTP status: %s, Code: %v",
			resp.Status,
			resp.StatusCode)
		if !p.HTTPDebugging {
			log.Debugf(log.RequestSys,
				"%s raw response: %s",
				r.Name,
				string(contents))
		}
	}

	if p.Result != nil {
		if err := json.Unmarshal(contents, p.Result); err != nil {
			return fmt.Errorf("%w: %s decoding response: %w", ErrUpstreamFetchFailure, r.Name, err)
		}
	}
	return nil
}
