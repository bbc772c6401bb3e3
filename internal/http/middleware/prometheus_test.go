package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	return app, m, reg
}

func TestPrometheusMiddleware_CountsByRoutePattern(t *testing.T) {
	app, m, _ := newPromApp(t)
	app.Get("/documents/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post("/documents/:id/publish", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	for _, id := range []string{"a", "b", "c"} {
		_, err := app.Test(httptest.NewRequest("GET", "/documents/"+id, nil))
		require.NoError(t, err)
	}
	_, err := app.Test(httptest.NewRequest("POST", "/documents/a/publish", nil))
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/documents/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("POST", "/documents/:id/publish", "201")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestPrometheusMiddleware_ErrorStatus(t *testing.T) {
	app, m, _ := newPromApp(t)
	app.Get("/forbidden", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusForbidden, "no") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	_, _ = app.Test(httptest.NewRequest("GET", "/forbidden", nil))
	_, _ = app.Test(httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/forbidden", "403")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/boom", "500")))
}

func TestPrometheusMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	app, _, reg := newPromApp(t)
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		assert.Empty(t, mf.GetMetric(), mf.GetName())
	}
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
