package dispatch

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Response is the final product of dispatching a request. The status it
// carries is authoritative; the dispatch machinery never rewrites it.
type Response struct {
	status Status
	header http.Header
	body   []byte
}

// NewResponse returns an empty response with the given status.
func NewResponse(status Status) *Response {
	return &Response{
		status: status,
		header: make(http.Header),
	}
}

// Status returns the response status code.
func (r *Response) Status() Status {
	return r.status
}

// Header returns the response header map for modification.
func (r *Response) Header() http.Header {
	if r.header == nil {
		r.header = make(http.Header)
	}
	return r.header
}

// Body returns the response body bytes.
func (r *Response) Body() []byte {
	return r.body
}

// SetBody replaces the response body.
func (r *Response) SetBody(body []byte) *Response {
	r.body = body
	return r
}

// Write writes the response to w: headers first, then the status line,
// then the body, per RFC 9112 Section 2.1 message ordering.
func (r *Response) Write(w http.ResponseWriter) {
	for key, values := range r.header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(int(r.status))
	if len(r.body) > 0 {
		w.Write(r.body)
	}
}

// Text returns a response with Content-Type "text/plain; charset=utf-8"
// and the given body.
func Text(status Status, body string) *Response {
	resp := NewResponse(status)
	resp.header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.body = []byte(body)
	return resp
}

// HTML returns a response with Content-Type "text/html; charset=utf-8"
// and the given body.
func HTML(status Status, body string) *Response {
	resp := NewResponse(status)
	resp.header.Set("Content-Type", "text/html; charset=utf-8")
	resp.body = []byte(body)
	return resp
}

// Blob returns a response with the given Content-Type and raw body.
// An empty contentType defaults to "application/octet-stream".
func Blob(status Status, contentType string, body []byte) *Response {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	resp := NewResponse(status)
	resp.header.Set("Content-Type", contentType)
	resp.body = body
	return resp
}

// JSON encodes v as JSON into a response with Content-Type
// "application/json". If encoding fails it returns a 500 response with
// a plain text body instead.
func JSON(status Status, v any) *Response {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return Text(StatusInternalServerError, StatusInternalServerError.Reason())
	}

	resp := NewResponse(status)
	resp.header.Set("Content-Type", "application/json")
	resp.body = buf.Bytes()
	return resp
}
