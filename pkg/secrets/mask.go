package secrets

import (
	"net/url"
	"sort"
	"strings"

	masker "github.com/goliatone/go-masker"
)

const maskRule = "preserveEnds(2,2)"

var defaultSecretFields = []string{
	"webhook_url", "webhookurl", "webhook",
	"token", "api_key", "secret",
	"dsn", "password",
}

func init() {
	for _, field := range defaultSecretFields {
		masker.Default.RegisterMaskField(field, maskRule)
	}
}

// IsSecretField reports whether a config or metadata key holds a credential.
func IsSecretField(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, field := range defaultSecretFields {
		if key == field {
			return true
		}
	}
	return false
}

// MaskString hides all but the first and last two characters of value.
func MaskString(value string) string {
	if value == "" {
		return ""
	}
	if masked, err := masker.Default.String(maskRule, value); err == nil {
		return masked
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}

// MaskURL keeps the scheme and host of a webhook URL readable and masks the
// path and query, where incoming-webhook tokens live.
func MaskURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return MaskString(raw)
	}
	rest := strings.TrimPrefix(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		rest += "?" + u.RawQuery
	}
	prefix := u.Scheme + "://" + u.Host + "/"
	if rest == "" {
		return prefix
	}
	return prefix + MaskString(rest)
}

// MaskFields returns a copy of values with secret keys masked, for logging
// configuration snapshots.
func MaskFields(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]string, len(values))
	for _, k := range keys {
		v := values[k]
		switch {
		case !IsSecretField(k):
			out[k] = v
		case strings.Contains(v, "://"):
			out[k] = MaskURL(v)
		default:
			out[k] = MaskString(v)
		}
	}
	return out
}
