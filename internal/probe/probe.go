package probe

import (
	"context"

	"github.com/hamed0406/httping/internal/domain"
)

// Checker performs a single reachability check for a user-supplied target.
type Checker interface {
	Check(ctx context.Context, target string) domain.ProbeResult
}

// Policy decides which terminal responses count as reachable.
type Policy int

const (
	// AnyResponse treats any complete HTTP response as reachable, whatever
	// its status code.
	AnyResponse Policy = iota
	// SuccessStatus only accepts 2xx and 3xx responses.
	SuccessStatus
)

func (p Policy) accepts(status int) bool {
	if p == SuccessStatus {
		return status >= 200 && status < 400
	}
	return true
}
