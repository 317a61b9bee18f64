// Package report renders probe results and run summaries for the console.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hamed0406/httping/internal/domain"
	"github.com/hamed0406/httping/internal/probe"
	"github.com/hamed0406/httping/internal/stats"
)

// Printer writes one line per probe and the end-of-run summary.
type Printer struct {
	w       io.Writer
	Verbose bool

	okStyle    lipgloss.Style
	failStyle  lipgloss.Style
	dimStyle   lipgloss.Style
	titleStyle lipgloss.Style
}

// NewPrinter binds its styles to w, so output that is not a terminal stays
// plain. color=false disables styling altogether.
func NewPrinter(w io.Writer, verbose, color bool) *Printer {
	p := &Printer{
		w:          w,
		Verbose:    verbose,
		okStyle:    lipgloss.NewStyle(),
		failStyle:  lipgloss.NewStyle(),
		dimStyle:   lipgloss.NewStyle(),
		titleStyle: lipgloss.NewStyle(),
	}
	if color {
		r := lipgloss.NewRenderer(w)
		p.okStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
		p.failStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
		p.dimStyle = r.NewStyle().Faint(true)
		p.titleStyle = r.NewStyle().Bold(true)
	}
	return p
}

func (p *Printer) writef(format string, a ...any) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

// Result prints a single probe outcome.
func (p *Printer) Result(seq int, target string, r domain.ProbeResult) {
	url := r.URL
	if url == "" {
		url = target
	}
	if !p.Verbose {
		if r.Reachable {
			p.writef("%s %s reachable in %s\n", p.okStyle.Render("✔"), url, formatMS(*r.ResponseTime))
			return
		}
		p.writef("%s %s unreachable: %s\n", p.failStyle.Render("✖"), url, r.Error)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "seq=%d %s %s", seq, r.Method, url)
	if r.FinalURL != "" && r.FinalURL != url {
		fmt.Fprintf(&b, " -> %s", r.FinalURL)
	}
	if r.StatusCode != 0 {
		fmt.Fprintf(&b, " status=%d", r.StatusCode)
	}
	fmt.Fprintf(&b, " size=%d redirects=%d", r.Size, r.Redirects)
	if r.ResponseTime != nil {
		fmt.Fprintf(&b, " time=%s", formatMS(*r.ResponseTime))
	}

	if r.Reachable {
		p.writef("%s %s\n", p.okStyle.Render("✔"), b.String())
		return
	}
	p.writef("%s %s %s\n", p.failStyle.Render("✖"), b.String(),
		p.failStyle.Render(fmt.Sprintf("[%s] %s", r.ErrorKind, r.Error)))
}

// DNS prints a resolver diagnosis for a failed probe.
func (p *Printer) DNS(s probe.DNSStatus) {
	line := fmt.Sprintf("  dns %s: %s", s.Domain, s.Class)
	if s.CNAME != "" {
		line += " cname=" + s.CNAME
	}
	if len(s.Nameservers) > 0 {
		line += " ns=" + strings.Join(s.Nameservers, ",")
	}
	if s.ResolverError != "" {
		line += " (" + s.ResolverError + ")"
	}
	p.writef("%s\n", p.dimStyle.Render(line))
}

// Summary prints the run statistics. ok=false means no probe succeeded, and
// the round-trip figures are reported as undefined.
func (p *Printer) Summary(label string, sent, successes int, s stats.Summary, ok bool) {
	p.writef("\n%s\n", p.titleStyle.Render(fmt.Sprintf("--- %s httping statistics ---", label)))

	failed := 0.0
	if sent > 0 {
		failed = float64(sent-successes) / float64(sent) * 100
	}
	p.writef("%d probes sent, %d reachable, %.1f%% failed\n", sent, successes, failed)

	if !ok {
		p.writef("round-trip min/avg/max/stddev = n/a (no successful probes)\n")
		return
	}
	p.writef("round-trip min/avg/max/stddev = %s/%s/%s/%s ms\n",
		msValue(s.Min), msValue(s.Mean), msValue(s.Max), msValue(s.StdDev))
}

func msValue(d time.Duration) string {
	return fmt.Sprintf("%.3f", float64(d)/float64(time.Millisecond))
}

func formatMS(d time.Duration) string {
	return msValue(d) + " ms"
}
