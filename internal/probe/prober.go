package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/httping/internal/domain"
)

const defaultUserAgent = "httping/1.0"

// Prober issues the HTTP requests of one reachability probe: HEAD first,
// GET when the server rejects HEAD.
type Prober struct {
	Client       *http.Client
	Logger       *zap.Logger
	MaxRedirects int
	Policy       Policy
	UserAgent    string
}

func NewProber(logger *zap.Logger, maxRedirects int, policy Policy) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// every probe measures a full connection setup
	transport.DisableKeepAlives = true
	return &Prober{
		Client:       &http.Client{Transport: transport},
		Logger:       logger,
		MaxRedirects: maxRedirects,
		Policy:       policy,
		UserAgent:    defaultUserAgent,
	}
}

// attempt is the outcome of one HEAD or GET request including its redirects.
type attempt struct {
	result   domain.ProbeResult
	rejected bool // server answered 405/501 to the method
}

// Probe checks target once. The timeout applies to each attempt separately,
// so a GET fallback gets a fresh window.
func (p *Prober) Probe(ctx context.Context, target *url.URL, maxBytes int64, timeout time.Duration) domain.ProbeResult {
	head := p.do(ctx, http.MethodHead, target, 0, timeout)
	if !head.rejected {
		return head.result
	}

	p.Logger.Debug("probe_head_rejected",
		zap.String("url", target.String()),
		zap.Int("status", head.result.StatusCode),
	)
	return p.do(ctx, http.MethodGet, target, maxBytes, timeout).result
}

func (p *Prober) do(ctx context.Context, method string, target *url.URL, maxBytes int64, timeout time.Duration) attempt {
	res := domain.ProbeResult{URL: target.String(), Method: method}

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, method, target.String(), http.NoBody)
	if err != nil {
		res.ErrorKind = domain.KindInvalidURL
		res.Error = err.Error()
		return attempt{result: res}
	}
	ua := p.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	redirects := NewRedirectState(method, p.MaxRedirects)
	client := *p.Client
	client.CheckRedirect = redirects.CheckRedirect

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		res.Redirects = redirects.Count
		res.ErrorKind, res.Error = Classify(err, timeout)
		return attempt{result: res}
	}
	defer resp.Body.Close()

	res.FinalURL = resp.Request.URL.String()
	res.StatusCode = resp.StatusCode
	res.Redirects = redirects.Count

	if redirects.Exceeded() {
		res.ErrorKind = domain.KindTooManyRedirects
		res.Error = fmt.Sprintf("too many redirects (stopped after %d)", redirects.Count)
		return attempt{result: res}
	}

	if method == http.MethodHead && methodRejected(resp.StatusCode) {
		return attempt{result: res, rejected: true}
	}

	if method == http.MethodGet && maxBytes > 0 {
		n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBytes))
		res.Size = n
		if err != nil {
			res.ErrorKind, res.Error = Classify(err, timeout)
			res.Error = "reading body: " + res.Error
			return attempt{result: res}
		}
	}
	elapsed := time.Since(start)
	res.ResponseTime = &elapsed

	if !p.Policy.accepts(resp.StatusCode) {
		res.ErrorKind = domain.KindHTTPStatus
		res.Error = fmt.Sprintf("HTTP %s", resp.Status)
		return attempt{result: res}
	}
	res.Reachable = true
	return attempt{result: res}
}

func methodRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}
