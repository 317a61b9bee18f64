package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hamed0406/httping/internal/config"
)

func TestPreflight(t *testing.T) {
	cases := []struct {
		name     string
		cfg      config.Config
		want     bool
		contains string
	}{
		{
			name: "fully configured",
			cfg: config.Config{
				Addr: "127.0.0.1:8080", AdminAPIKeys: []string{"a"}, PublicAPIKeys: []string{"p"},
				AllowedOrigins: []string{"https://app.example"}, PublicRPM: 60, PublicBurst: 5,
			},
			want:     true,
			contains: "preflight passed",
		},
		{
			name:     "open api only warns",
			cfg:      config.Config{Addr: ":8080"},
			want:     true,
			contains: "open to everyone",
		},
		{
			name:     "bad addr fails",
			cfg:      config.Config{Addr: "localhost"},
			want:     false,
			contains: "not host:port",
		},
		{
			name:     "plain http webhook fails",
			cfg:      config.Config{Addr: ":8080", SlackWebhook: "http://hooks.example/x"},
			want:     false,
			contains: "SLACK_WEBHOOK_URL",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if got := preflight(c.cfg, &out, &errOut); got != c.want {
				t.Fatalf("preflight=%v want %v\n%s%s", got, c.want, out.String(), errOut.String())
			}
			if all := out.String() + errOut.String(); !strings.Contains(all, c.contains) {
				t.Fatalf("output missing %q:\n%s", c.contains, all)
			}
		})
	}
}
