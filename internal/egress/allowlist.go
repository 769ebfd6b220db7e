package egress

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dariafung/fotex/internal/llm"
)

// AllowlistRoundTripper only lets requests through to the configured backend
// hosts so document text never leaves for an unexpected destination. Plain
// http is allowed because Ollama commonly runs on localhost or a LAN/tailnet host.
type AllowlistRoundTripper struct {
	Base      http.RoundTripper
	Allowlist map[string]bool
}

func NewAllowlistRoundTripper(base http.RoundTripper, hosts []string) *AllowlistRoundTripper {
	allowlist := make(map[string]bool, len(hosts))
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			allowlist[host] = true
		}
	}
	return &AllowlistRoundTripper{Base: base, Allowlist: allowlist}
}

// ForBaseURL allows exactly the host of baseURL.
func ForBaseURL(base http.RoundTripper, baseURL string) *AllowlistRoundTripper {
	var hosts []string
	if parsed, err := url.Parse(baseURL); err == nil {
		hosts = append(hosts, parsed.Hostname())
	}
	return NewAllowlistRoundTripper(base, hosts)
}

func (rt *AllowlistRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL == nil {
		return nil, llm.ErrEgressBlocked
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, llm.ErrEgressBlocked
	}
	host := strings.ToLower(req.URL.Hostname())
	if host == "" || !rt.Allowlist[host] {
		return nil, llm.ErrEgressBlocked
	}
	base := rt.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
