package probe

import "net/http"

// DefaultMaxRedirects bounds the redirect chain of one attempt.
const DefaultMaxRedirects = 10

// RedirectState counts the redirects followed by one logical request and
// forces every hop back to the method the request started with.
//
// A RedirectState belongs to a single attempt; create a new one per request.
type RedirectState struct {
	Method       string
	MaxRedirects int
	Count        int

	exceeded bool
}

func NewRedirectState(method string, maxRedirects int) *RedirectState {
	if maxRedirects < 0 {
		maxRedirects = 0
	}
	return &RedirectState{Method: method, MaxRedirects: maxRedirects}
}

// CheckRedirect is installed as http.Client.CheckRedirect. Once Count reaches
// MaxRedirects it refuses the hop and the client returns the redirect
// response itself.
func (s *RedirectState) CheckRedirect(req *http.Request, _ []*http.Request) error {
	if s.Count >= s.MaxRedirects {
		s.exceeded = true
		return http.ErrUseLastResponse
	}
	s.Count++
	// net/http may rewrite the method on 301/302/303; keep the original one.
	req.Method = s.Method
	return nil
}

// Exceeded reports whether a redirect was refused because the bound was hit.
func (s *RedirectState) Exceeded() bool {
	return s.exceeded
}
