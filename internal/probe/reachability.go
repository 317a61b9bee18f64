package probe

import (
	"context"
	"time"

	"github.com/hamed0406/httping/internal/domain"
)

var _ Checker = (*Reachability)(nil)

// Reachability normalizes user input and probes it with Prober.
type Reachability struct {
	Prober  *Prober
	Bytes   int64         // body cap for the GET fallback
	Timeout time.Duration // per attempt
}

func NewReachability(p *Prober, bytes int64, timeout time.Duration) *Reachability {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Reachability{Prober: p, Bytes: bytes, Timeout: timeout}
}

// Check never touches the network for input that fails normalization.
func (r *Reachability) Check(ctx context.Context, target string) domain.ProbeResult {
	u, err := Normalize(target)
	if err != nil {
		return domain.ProbeResult{
			Method:    "HEAD",
			ErrorKind: domain.KindInvalidURL,
			Error:     err.Error(),
		}
	}
	return r.Prober.Probe(ctx, u, r.Bytes, r.Timeout)
}
