package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/httping/internal/domain"
	"github.com/hamed0406/httping/internal/probe"
	"github.com/hamed0406/httping/internal/stats"
)

func TestPrinter_SuccinctLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	d := 12345 * time.Microsecond
	p.Result(1, "example.com", domain.ProbeResult{URL: "https://example.com", Reachable: true, Method: "HEAD", ResponseTime: &d})
	p.Result(2, "example.com", domain.ProbeResult{URL: "https://example.com", Method: "HEAD", ErrorKind: domain.KindConnectionRefused, Error: "connection refused"})

	want := "✔ https://example.com reachable in 12.345 ms\n" +
		"✖ https://example.com unreachable: connection refused\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrinter_VerboseLine(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	d := 2 * time.Millisecond
	p.Result(3, "a.example", domain.ProbeResult{
		URL: "https://a.example", FinalURL: "https://b.example/", Reachable: true,
		Method: "GET", StatusCode: 200, Size: 64, Redirects: 1, ResponseTime: &d,
	})
	got := buf.String()
	for _, part := range []string{"seq=3", "GET https://a.example -> https://b.example/", "status=200", "size=64", "redirects=1", "time=2.000 ms"} {
		if !strings.Contains(got, part) {
			t.Fatalf("verbose line %q missing %q", got, part)
		}
	}
}

func TestPrinter_VerboseFailureAndDNS(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	p.Result(1, "nope.invalid", domain.ProbeResult{URL: "https://nope.invalid", Method: "HEAD", ErrorKind: domain.KindDNSFailure, Error: `cannot resolve host "nope.invalid"`})
	p.DNS(probe.DNSStatus{Domain: "nope.invalid", Class: probe.DNSNXDomain})

	got := buf.String()
	if !strings.Contains(got, "[dns_failure] cannot resolve host") {
		t.Fatalf("missing error kind: %q", got)
	}
	if !strings.Contains(got, "dns nope.invalid: NXDOMAIN") {
		t.Fatalf("missing dns line: %q", got)
	}
}

func TestPrinter_SummaryWithSamples(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	s, ok := stats.Summarize([]time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond})
	p.Summary("https://example.com", 4, 3, s, ok)

	got := buf.String()
	if !strings.Contains(got, "--- https://example.com httping statistics ---") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "4 probes sent, 3 reachable, 25.0% failed") {
		t.Fatalf("missing counts: %q", got)
	}
	if !strings.Contains(got, "= 10.000/20.000/30.000/8.165 ms") {
		t.Fatalf("missing round-trip figures: %q", got)
	}
}

func TestPrinter_SummaryWithoutSamples(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	s, ok := stats.Summarize(nil)
	p.Summary("https://down.example", 5, 0, s, ok)

	got := buf.String()
	if !strings.Contains(got, "5 probes sent, 0 reachable, 100.0% failed") {
		t.Fatalf("missing counts: %q", got)
	}
	if !strings.Contains(got, "n/a") {
		t.Fatalf("want undefined round-trip figures, got %q", got)
	}
}

func TestPrinter_ColorToBufferStaysReadable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, true)
	d := time.Millisecond
	p.Result(1, "x", domain.ProbeResult{URL: "https://x", Reachable: true, ResponseTime: &d})
	if !strings.Contains(buf.String(), "https://x reachable in 1.000 ms") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
