package profiles

import "strings"

// ConfigString returns the trimmed string value for key from profile.Config or a fallback.
func ConfigString(p Profile, key, fallback string) string {
	if p.Config != nil {
		if raw, ok := p.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"
)

// Headers builds the static request headers for a profile. Explicit headers
// win over the well-known config keys; empty values are skipped.
func Headers(p Profile) map[string]string {
	headers := make(map[string]string, len(p.Headers)+3)

	if v := ConfigString(p, ConfigUserAgentKey, ""); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(p, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}
	if v := ConfigString(p, ConfigCacheControlKey, ""); v != "" {
		headers["Cache-Control"] = v
	}
	for k, v := range p.Headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}

	return headers
}
