package handling

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"waitfaster_server/lib"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseStatusFilter reads a status set from the query string. Both
// ?statuses=a,b and ?statuses=a&statuses=b are accepted; nothing means no
// filter.
func ParseStatusFilter[T ~string](r *http.Request, key string, allowed []T) ([]T, error) {
	var out []T
	for _, raw := range r.URL.Query()[key] {
		for _, part := range splitAndTrim(raw) {
			if part == "" {
				continue
			}
			status := T(part)
			if !slices.Contains(allowed, status) {
				return nil, fmt.Errorf("unknown status %q: %w", part, lib.ErrBadRequest)
			}
			if !slices.Contains(out, status) {
				out = append(out, status)
			}
		}
	}
	return out, nil
}

// ParseUUIDParam reads a chi path parameter as a uuid
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, lib.ErrBadRequest)
	}
	return id, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
