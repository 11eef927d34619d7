package clientcli

import (
	"net/http"
	"strconv"
)

// Response is the outcome of an API call.
type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
	RequestID  string `json:"request_id,omitempty"`
}

// String formats the response as "<status> (<code>): <body>".
func (r *Response) String() string {
	return r.Status + " (" + strconv.Itoa(r.StatusCode) + "): " + r.Body
}

// OK reports whether the server answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// ErrorResponse describes a call that produced no response, such as a
// connection failure, in the same shape as a server response.
func ErrorResponse(err error) *Response {
	return &Response{Status: "Error", Body: err.Error()}
}
