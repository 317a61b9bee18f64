package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// DNS classes reported by CheckDNS.
const (
	DNSResolves      = "RESOLVES"
	DNSNXDomain      = "NXDOMAIN"
	DNSNoARecord     = "NO_A_RECORD"
	DNSServfail      = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName   = "INVALID_NAME"
	defaultDNSBudget = 3 * time.Second
)

// DNSStatus explains why a host failed to resolve.
type DNSStatus struct {
	Domain        string
	HasAOrAAAA    bool
	IPs           []net.IP
	CNAME         string
	HasNS         bool
	Nameservers   []string
	Class         string
	ResolverError string
}

// Resolver is the subset of *net.Resolver used by CheckDNS.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// CheckDNS classifies the DNS state of a host name or URL with the system
// resolver.
func CheckDNS(ctx context.Context, target string) DNSStatus {
	return checkDNS(ctx, net.DefaultResolver, target)
}

func checkDNS(ctx context.Context, r Resolver, target string) DNSStatus {
	s := DNSStatus{Domain: HostOf(target)}
	if s.Domain == "" || strings.Contains(s.Domain, "://") {
		s.Class = DNSInvalidName
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, defaultDNSBudget)
	defer cancel()

	ips, ipErr := r.LookupIP(ctx, "ip", s.Domain)
	if ipErr != nil {
		s.ResolverError = ipErr.Error()
	}
	s.IPs = ips
	s.HasAOrAAAA = len(ips) > 0

	if cname, err := r.LookupCNAME(ctx, s.Domain); err == nil && !strings.EqualFold(cname, s.Domain+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}
	if ns, err := r.LookupNS(ctx, s.Domain); err == nil {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		s.HasNS = len(s.Nameservers) > 0
	}

	s.Class = dnsClass(s, ipErr)
	return s
}

// dnsClass picks the class from the lookups: an address always wins, a
// resolver failure beats the NS answer, and a delegated zone without
// addresses is NO_A_RECORD.
func dnsClass(s DNSStatus, ipErr error) string {
	if s.HasAOrAAAA {
		return DNSResolves
	}
	var de *net.DNSError
	isDNSErr := errors.As(ipErr, &de)
	if isDNSErr && (de.IsTemporary || de.Timeout()) {
		return DNSServfail
	}
	if s.HasNS {
		return DNSNoARecord
	}
	if ipErr == nil || (isDNSErr && de.IsNotFound) {
		return DNSNXDomain
	}
	return DNSServfail
}

// HostOf returns the host name of a URL, or raw itself when it has none.
func HostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
