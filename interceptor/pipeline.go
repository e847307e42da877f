package interceptor

import (
	"bytes"
	"io"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxErrorBody = 1 << 20
)

// Middleware is one stage of the pipeline. BeforeRequest runs in
// registration order; AfterResponse runs in reverse order and sees either a
// 2xx response or an error (never both). Stages may mutate the request they
// are given: the pipeline owns a clone of the caller's request.
type Middleware interface {
	BeforeRequest(req *http.Request) (*http.Request, error)
	AfterResponse(req *http.Request, resp *http.Response, err error) (*http.Response, error)
}

// Pipeline is an http.RoundTripper that runs every request through its
// stages. The first stage is the outermost.
type Pipeline struct {
	transport http.RoundTripper
	stages    []Middleware
}

func NewPipeline(transport http.RoundTripper, stages ...Middleware) *Pipeline {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Pipeline{transport: transport, stages: stages}
}

// Client returns an http.Client that sends through the pipeline.
func (p *Pipeline) Client() *http.Client {
	return &http.Client{Transport: p}
}

func (p *Pipeline) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	req = req.Clone(req.Context())
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}

	entered := 0
	defer func() {
		// Unwind only the stages whose BeforeRequest succeeded, even when a
		// stage or the transport panics.
		if r := recover(); r != nil {
			for i := entered - 1; i >= 0; i-- {
				p.stages[i].AfterResponse(req, nil, &HTTPError{Method: req.Method, URL: req.URL.String(), Message: MsgNetwork})
			}
			panic(r)
		}
		for i := entered - 1; i >= 0; i-- {
			resp, err = p.stages[i].AfterResponse(req, resp, err)
		}
	}()

	for _, st := range p.stages {
		next, berr := st.BeforeRequest(req)
		if berr != nil {
			return nil, berr
		}
		if next != nil {
			req = next
		}
		entered++
	}

	resp, err = p.transport.RoundTrip(req)
	return toHTTPError(req, resp, err)
}

// toHTTPError converts transport failures and non-2xx responses into
// *HTTPError. The body of a failed response is consumed and closed.
func toHTTPError(req *http.Request, resp *http.Response, err error) (*http.Response, error) {
	authenticated := req.Header.Get("Authorization") != ""
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, &HTTPError{
			Method:        req.Method,
			URL:           req.URL.String(),
			Message:       MessageFor(0, nil),
			Authenticated: authenticated,
			Err:           err,
		}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	body = bytes.TrimSpace(body)

	var fields []string
	if resp.StatusCode == http.StatusUnprocessableEntity {
		fields = FieldErrors(body)
	}
	return nil, &HTTPError{
		Method:        req.Method,
		URL:           req.URL.String(),
		Status:        resp.StatusCode,
		Message:       MessageFor(resp.StatusCode, body),
		ServerMessage: ServerMessage(body),
		FieldErrors:   fields,
		Body:          body,
		Authenticated: authenticated,
	}
}
