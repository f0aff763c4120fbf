package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL sets sslmode when the connection string does not carry one.
// Both URL and key=value forms are accepted by lib/pq.
func normalizeDBURL(raw, sslMode string) string {
	sslMode = strings.TrimSpace(sslMode)
	if sslMode == "" {
		return raw
	}

	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		query := parsed.Query()
		if query.Get("sslmode") == "" {
			query.Set("sslmode", sslMode)
			parsed.RawQuery = query.Encode()
		}
		return parsed.String()
	}

	for _, token := range strings.Fields(trimmed) {
		if strings.HasPrefix(token, "sslmode=") {
			return raw
		}
	}
	return trimmed + " sslmode=" + sslMode
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

const maxTracedQueryLength = 512

// traceQuery collapses whitespace in a query and caps its length before it
// is attached to a span as db.statement.
func traceQuery(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	if len(collapsed) > maxTracedQueryLength {
		return collapsed[:maxTracedQueryLength] + "..."
	}
	return collapsed
}
