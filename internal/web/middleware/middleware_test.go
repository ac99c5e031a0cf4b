package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/crm/internal/logging"
)

func echoRemote(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(r.RemoteAddr))
}

func TestTrustedRealIP(t *testing.T) {
	h := TrustedRealIP([]string{"10.0.0.0/8", "192.168.1.5", "not-an-ip"})(http.HandlerFunc(echoRemote))

	tests := []struct {
		name   string
		remote string
		header string
		value  string
		want   string
	}{
		{"trusted real ip", "10.1.2.3:5000", "X-Real-IP", "203.0.113.9", "203.0.113.9"},
		{"trusted forwarded for", "192.168.1.5:80", "X-Forwarded-For", "198.51.100.1, 10.0.0.1", "198.51.100.1"},
		{"untrusted keeps socket", "203.0.113.50:1234", "X-Real-IP", "1.2.3.4", "203.0.113.50:1234"},
		{"invalid header ignored", "10.1.2.3:5000", "X-Real-IP", "garbage", "10.1.2.3:5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set(tt.header, tt.value)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(2, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "buckets are per client")

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("a"), "one token refills every 30s at 2/min")
}

func TestRateLimiter_DropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(10, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(10 * time.Minute)
	rl.Allow("b")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestRateLimiter_Middleware(t *testing.T) {
	rejected := 0
	rl := NewRateLimiter(1, func(w http.ResponseWriter, r *http.Request) {
		rejected++
		w.WriteHeader(http.StatusTooManyRequests)
	})
	h := rl.Middleware(http.HandlerFunc(echoRemote))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i)
	}
	assert.Equal(t, 1, rejected)
}

func TestSession_IssuesAndReusesID(t *testing.T) {
	store := NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), 3600, false)
	var seen string
	var issued bool
	h := Session(store, "crm_session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.SessionFromContext(r.Context())
		issued = SessionIssued(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first := seen
	assert.True(t, issued)
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, seen)
	assert.False(t, issued, "returned id is not marked issued")
	assert.Empty(t, rec.Result().Cookies(), "existing session is not re-issued")
}

func TestSession_TamperedCookieGetsNewID(t *testing.T) {
	store := NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), 3600, false)
	var seen string
	h := Session(store, "crm_session")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "crm_session", Value: "forged"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLogger_RecordsStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
