package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/httping/internal/domain"
	"github.com/hamed0406/httping/internal/httpapi/middleware"
	"github.com/hamed0406/httping/internal/metrics"
	"github.com/hamed0406/httping/internal/probe"
	"github.com/hamed0406/httping/internal/scheduler"
)

const maxProbeCount = 10

type Server struct {
	Logger  *zap.Logger
	Checker probe.Checker
	Wait    time.Duration // pause between probes of one request

	// DNS diagnoses dns_failure results; nil skips the diagnosis.
	DNS func(r *http.Request, target string) probe.DNSStatus
}

func NewServer(l *zap.Logger, c probe.Checker, wait time.Duration) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{
		Logger:  l,
		Checker: c,
		Wait:    wait,
		DNS: func(r *http.Request, target string) probe.DNSStatus {
			return probe.CheckDNS(r.Context(), target)
		},
	}
}

type RouterOptions struct {
	Keys           middleware.Keys
	AllowedOrigins []string
	PublicRPM      int
	PublicBurst    int
}

func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	if len(opts.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "X-API-Key", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAny(opts.Keys))
		r.Use(middleware.RateLimit(opts.PublicRPM, opts.PublicBurst))
		r.Get("/api/probe", s.handleProbe)
	})

	r.With(middleware.RequireAdmin(opts.Keys)).Handle("/metrics", promhttp.Handler())

	return r
}

type dnsView struct {
	Domain        string   `json:"domain"`
	Class         string   `json:"class"`
	CNAME         string   `json:"cname,omitempty"`
	Nameservers   []string `json:"nameservers,omitempty"`
	ResolverError string   `json:"resolver_error,omitempty"`
}

type resultView struct {
	domain.ProbeResult
	Seq       int      `json:"seq"`
	LatencyMS *float64 `json:"latency_ms"`
	DNS       *dnsView `json:"dns,omitempty"`
}

type summaryView struct {
	Sent      int      `json:"sent"`
	Reachable int      `json:"reachable"`
	MinMS     *float64 `json:"min_ms"`
	AvgMS     *float64 `json:"avg_ms"`
	MaxMS     *float64 `json:"max_ms"`
	StdDevMS  *float64 `json:"stddev_ms"`
}

type probeResponse struct {
	Target  string       `json:"target"`
	Results []resultView `json:"results"`
	Summary summaryView  `json:"summary"`
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	u, err := probe.Normalize(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}

	count := 1
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxProbeCount {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 10")
			return
		}
		count = n
	}

	target := u.String()
	results := make([]resultView, 0, count)

	runner := scheduler.NewRunner(s.Logger, s.Checker, target, count, s.Wait)
	runner.OnResult = func(seq int, target string, res domain.ProbeResult) {
		metrics.Observe(res)
		rv := resultView{ProbeResult: res, Seq: seq, LatencyMS: res.LatencyMS()}
		if res.ErrorKind == domain.KindDNSFailure && s.DNS != nil {
			rv.DNS = s.diagnose(r, target)
		}
		results = append(results, rv)
	}

	out, err := runner.Run(r.Context())
	if err != nil {
		// client went away
		s.Logger.Info("probe_request_aborted", zap.String("target", target), zap.Error(err))
		return
	}

	resp := probeResponse{
		Target:  target,
		Results: results,
		Summary: summaryView{Sent: out.Attempts, Reachable: out.Successes},
	}
	if sum, ok := out.Stats.Summary(); ok {
		resp.Summary.MinMS = ms(sum.Min)
		resp.Summary.AvgMS = ms(sum.Mean)
		resp.Summary.MaxMS = ms(sum.Max)
		resp.Summary.StdDevMS = ms(sum.StdDev)
	}

	s.Logger.Info("probe_request",
		zap.String("target", target),
		zap.Int("count", count),
		zap.Int("reachable", out.Successes),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) diagnose(r *http.Request, target string) *dnsView {
	st := s.DNS(r, target)
	s.Logger.Info("dns_check",
		zap.String("domain", st.Domain),
		zap.String("class", st.Class),
		zap.Bool("has_a_or_aaaa", st.HasAOrAAAA),
		zap.Strings("nameservers", st.Nameservers),
		zap.String("cname", st.CNAME),
		zap.String("resolver_error", st.ResolverError),
	)
	return &dnsView{
		Domain:        st.Domain,
		Class:         st.Class,
		CNAME:         st.CNAME,
		Nameservers:   st.Nameservers,
		ResolverError: st.ResolverError,
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func ms(d time.Duration) *float64 {
	v := float64(d) / float64(time.Millisecond)
	return &v
}
