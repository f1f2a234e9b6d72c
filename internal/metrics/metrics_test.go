package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/lcdpipe/internal/metrics"
)

func TestCollectorCounts(t *testing.T) {
	c := metrics.New()
	c.Line()
	c.Line()
	c.DecodeError(`bad_hex`)
	c.Command(`plot`)
	c.Command(`plot`)
	c.Command(`reset`)
	c.Reconnect()
	c.SetIngestState(1)

	expected := `
# HELP lcdpipe_commands_total Commands applied to the framebuffer.
# TYPE lcdpipe_commands_total counter
lcdpipe_commands_total{kind="plot"} 2
lcdpipe_commands_total{kind="reset"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), `lcdpipe_commands_total`))
	n, err := testutil.GatherAndCount(c.Registry(), `lcdpipe_commands_total`)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expected = `
# HELP lcdpipe_lines_total Protocol lines read from the transport.
# TYPE lcdpipe_lines_total counter
lcdpipe_lines_total 2
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), `lcdpipe_lines_total`))
}

func TestNilCollector(t *testing.T) {
	var c *metrics.Collector
	assert.NotPanics(t, func() {
		c.Line()
		c.DecodeError(`x`)
		c.Command(`x`)
		c.ApplyError(`x`)
		c.Reconnect()
		c.SetIngestState(0)
		c.RegisterQueue(func() int { return 0 })
	})
	assert.Nil(t, c.Registry())
}

func TestHandlerServesQueueDepth(t *testing.T) {
	c := metrics.New()
	c.RegisterQueue(func() int { return 7 })

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, `/metrics`, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lcdpipe_queue_depth 7`)
}

func TestRegisterQueueReplacesSource(t *testing.T) {
	c := metrics.New()
	assert.NotPanics(t, func() {
		c.RegisterQueue(func() int { return 1 })
		c.RegisterQueue(func() int { return 3 })
	})
	n, err := testutil.GatherAndCount(c.Registry(), `lcdpipe_queue_depth`)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, `/metrics`, nil))
	assert.Contains(t, rec.Body.String(), `lcdpipe_queue_depth 3`)
}
