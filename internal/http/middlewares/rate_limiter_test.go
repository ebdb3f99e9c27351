package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"task-manager.com/task-manager/internal/clock"
)

func newLimitedServer(limit int, clk clock.Clock) *echo.Echo {
	e := echo.New()
	e.Use(RateLimiter(limit, time.Minute, clk))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func hit(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	e := newLimitedServer(2, clk)

	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)

	clk.Advance(20 * time.Second)
	rec := hit(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "40", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.2").Code, "other clients have their own budget")

	clk.Advance(41 * time.Second)
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code, "budget resets after the window")
}
