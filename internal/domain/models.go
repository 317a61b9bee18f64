package domain

import "time"

// ErrorKind classifies why a probe did not reach its target.
type ErrorKind string

const (
	KindInvalidURL        ErrorKind = "invalid_url"
	KindTimeout           ErrorKind = "timeout"
	KindDNSFailure        ErrorKind = "dns_failure"
	KindConnectionRefused ErrorKind = "connection_refused"
	KindTLSFailure        ErrorKind = "tls_failure"
	KindTooManyRedirects  ErrorKind = "too_many_redirects"
	KindHTTPStatus        ErrorKind = "http_status"
	KindCanceled          ErrorKind = "canceled"
	KindTransport         ErrorKind = "transport"
)

// ProbeResult is the outcome of one reachability check.
//
// Optional values use zero/nil for "absent": FinalURL is empty when no
// response was received, ResponseTime is nil when the probe did not complete.
type ProbeResult struct {
	URL          string         `json:"url,omitempty"`
	Reachable    bool           `json:"reachable"`
	FinalURL     string         `json:"final_url,omitempty"`
	Method       string         `json:"method"`
	StatusCode   int            `json:"status_code,omitempty"`
	Size         int64          `json:"size"`
	Redirects    int            `json:"redirects"`
	ResponseTime *time.Duration `json:"-"`
	ErrorKind    ErrorKind      `json:"error_kind,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// LatencyMS returns the response time in milliseconds, or nil when absent.
func (r ProbeResult) LatencyMS() *float64 {
	if r.ResponseTime == nil {
		return nil
	}
	ms := float64(*r.ResponseTime) / float64(time.Millisecond)
	return &ms
}
