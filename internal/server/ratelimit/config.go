package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig is the limit for one method and path. A Path ending in "/"
// matches every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int // defaults to Limit
}

// key identifies the bucket family the endpoint config applies to.
func (c *EndpointConfig) key() string {
	return c.Method + " " + c.Path
}

// LoadConfig reads RATE_LIMIT_* environment variables.
//
//	RATE_LIMIT_ENABLED           default true
//	RATE_LIMIT_DEFAULT_LIMIT     default 1000
//	RATE_LIMIT_DEFAULT_WINDOW    default 1m
//	RATE_LIMIT_CLEANUP_INTERVAL  default 5m
//	RATE_LIMIT_WHITELIST         comma separated IPs
//	RATE_LIMIT_BLACKLIST         comma separated IPs
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("RATE_LIMIT")
	v.AutomaticEnv()
	v.SetDefault("enabled", true)
	v.SetDefault("default_limit", 1000)
	v.SetDefault("default_window", time.Minute)
	v.SetDefault("cleanup_interval", 5*time.Minute)
	v.SetDefault("whitelist", "")
	v.SetDefault("blacklist", "")

	if !v.GetBool("enabled") {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt("default_limit"),
		DefaultWindow:   v.GetDuration("default_window"),
		CleanupInterval: v.GetDuration("cleanup_interval"),
		Whitelist:       parseIPList(v.GetString("whitelist")),
		Blacklist:       parseIPList(v.GetString("blacklist")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs limits the endpoints that upload files, send mail or
// check credentials. Everything else falls back to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// uploads and LLM work
		{Path: "/applications", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/applications/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/applications/", Method: "PATCH", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/resume/extract", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		// applicant wizard
		{Path: "/applicant/verify_email/code", Method: "POST", Limit: 5, Window: 10 * time.Minute, Burst: 2},
		{Path: "/applicant/verify_email", Method: "POST", Limit: 10, Window: 10 * time.Minute, Burst: 5},
		{Path: "/applicant/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},

		// credentials
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 5, Window: time.Hour, Burst: 2},
		{Path: "/auth/password", Method: "PUT", Limit: 10, Window: time.Hour, Burst: 3},

		// recruiter writes
		{Path: "/job-postings", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/job-postings/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
