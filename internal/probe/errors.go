package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"time"

	"github.com/hamed0406/httping/internal/domain"
)

// Classify maps a client error to an ErrorKind and a short description.
// timeout is only used to phrase the timeout message.
func Classify(err error, timeout time.Duration) (domain.ErrorKind, string) {
	if err == nil {
		return "", ""
	}

	// Cancellation wins over whatever the transport reported on the way out.
	if errors.Is(err, context.Canceled) {
		return domain.KindCanceled, "probe canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.KindTimeout, fmt.Sprintf("timed out after %s", timeout)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return domain.KindDNSFailure, fmt.Sprintf("cannot resolve host %q", dnsErr.Name)
		}
		return domain.KindDNSFailure, fmt.Sprintf("DNS lookup failed: %s", dnsErr.Err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.KindConnectionRefused, "connection refused"
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var invalidCert x509.CertificateInvalidError
	var recordErr tls.RecordHeaderError
	var alertErr tls.AlertError
	switch {
	case errors.As(err, &certErr), errors.As(err, &unknownAuth),
		errors.As(err, &hostErr), errors.As(err, &invalidCert):
		return domain.KindTLSFailure, fmt.Sprintf("TLS certificate rejected: %s", rootCause(err))
	case errors.As(err, &recordErr), errors.As(err, &alertErr):
		return domain.KindTLSFailure, fmt.Sprintf("TLS handshake failed: %s", rootCause(err))
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return domain.KindTimeout, fmt.Sprintf("timed out after %s", timeout)
		}
		if opErr.Op == "dial" {
			return domain.KindTransport, fmt.Sprintf("cannot connect: %s", rootCause(err))
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.KindTimeout, fmt.Sprintf("timed out after %s", timeout)
	}

	return domain.KindTransport, rootCause(err)
}

// rootCause strips the *url.Error wrapper, whose message repeats method and URL.
func rootCause(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err.Error()
	}
	return err.Error()
}
