package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
	"waitfaster_server/structs"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"/order/4b0c9f5e-1d7a-4c1e-9a51-1f4c3b2d9e10/7d1c2e3f-4a5b-4c6d-8e9f-0a1b2c3d4e5f": "/order/:id/:id",
		"/assistance/4b0c9f5e-1d7a-4c1e-9a51-1f4c3b2d9e10/status":                           "/assistance/:id/status",
		"/session/complete/Table12":                                                         "/session/complete/:table",
		"/activity-panel/":                                                                  "/activity-panel",
		"/table/session":                                                                    "/table/session",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeEndpoint(in), in)
	}
}

func TestGetRateLimitForEndpoint(t *testing.T) {
	mw := &Middleware{cfg: &structs.Config{RateLimit: &structs.RateLimitConfig{
		GeneralLimit:  10,
		GeneralWindow: time.Minute,
		StaffLimit:    100,
		StaffWindow:   2 * time.Minute,
	}}}

	staff := []string{"/orders", "/order/a/b", "/activity-panel", "/assistance/requests", "/assistance/abc/reopen", "/session/complete/Table1"}
	for _, path := range staff {
		limit, window := mw.getRateLimitForEndpoint(path)
		assert.Equal(t, 100, limit, path)
		assert.Equal(t, 2*time.Minute, window, path)
	}

	general := []string{"/order", "/session/start", "/assistance/request", "/table/session", "/auth/me"}
	for _, path := range general {
		limit, _ := mw.getRateLimitForEndpoint(path)
		assert.Equal(t, 10, limit, path)
	}
}

func TestGetClientIP(t *testing.T) {
	mw := &Middleware{}

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "10.0.0.7", mw.getClientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.8")
	assert.Equal(t, "10.0.0.8", mw.getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", mw.getClientIP(r))
}
