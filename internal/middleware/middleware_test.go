package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

const secret = "test-secret"

func token(t *testing.T, id utils.Identity) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, id, 5)
	if err != nil {
		t.Fatal(err)
	}
	return tok.Token
}

func serve(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRequireAdmin(t *testing.T) {
	e := echo.New()
	var seen model.Actor
	var seenID uint64
	e.GET("/x", func(c echo.Context) error {
		seen, _ = Actor(c)
		seenID = UserID(c)
		return c.NoContent(http.StatusNoContent)
	}, JWTAuth(secret), RequireAdmin(model.AdminStaff))

	staff := token(t, utils.Identity{UserID: 7, Email: "office@hall.test", AdminLevel: model.AdminStaff})
	resident := token(t, utils.Identity{UserID: 8, Email: "r@hall.test"})

	cases := []struct {
		name string
		auth string
		want int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"resident", "Bearer " + resident, http.StatusForbidden},
		{"staff", "Bearer " + staff, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := serve(e, tc.auth); rec.Code != tc.want {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
	if seen.Email != "office@hall.test" || !seen.IsAdmin() || seenID != 7 {
		t.Fatalf("actor = %+v id = %d", seen, seenID)
	}
}

func TestTokenBucketFallsBackToLocal(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1,
		RefillInterval: time.Hour, TTL: time.Hour, KeyStrategy: "ip", Prefix: "t",
	}
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, nil))

	for i, want := range []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests} {
		rec := serve(e, "")
		if rec.Code != want {
			t.Fatalf("request %d: code = %d, want %d", i, rec.Code, want)
		}
		if want == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Fatal("missing Retry-After")
		}
	}
}

func TestTokenBucketDisabled(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(config.RateLimitConfig{}, nil))
	for i := 0; i < 5; i++ {
		if rec := serve(e, ""); rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d", rec.Code)
		}
	}
}

func TestLocalLimiterSweepsIdleKeys(t *testing.T) {
	l := newLocalLimiter(config.RateLimitConfig{Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute})
	l.sweepAt = 2
	now := time.Unix(1_700_000_000, 0)
	l.take("a", now)
	l.take("b", now)
	l.take("c", now.Add(2*time.Minute))
	if _, ok := l.entries["a"]; ok {
		t.Fatal("idle key survived sweep")
	}
	if len(l.entries) != 1 {
		t.Fatalf("entries = %d", len(l.entries))
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"status":true}`))
	if err != nil {
		t.Fatal(err)
	}
	status, got, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"status":true}` {
		t.Fatalf("decoded %d %v %q %v", status, got, body, ok)
	}
	if _, _, _, ok := decodePayload(bs[:5]); ok {
		t.Fatal("short payload decoded")
	}
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 4}
	cw.Write([]byte("abc"))
	cw.Write([]byte("defg"))
	if cw.buf.String() != "abcd" || cw.size != 7 || rec.Body.String() != "abcdefg" {
		t.Fatalf("buf=%q size=%d body=%q", cw.buf.String(), cw.size, rec.Body.String())
	}
}
