package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilManagerIsSafe(t *testing.T) {
	var m *MetricsManager
	assert.NotPanics(t, func() {
		m.SessionOpened()
		m.ObserveFilter(3)
		m.FavoriteToggled(true)
		m.LoginRequiredFor("favorite")
		m.MessageSent()
		m.AgentReply("delivered")
		m.Description("failed")
		m.ObserveHTTP(http.MethodGet, "/x", 200, 0.1)
		m.SessionClosed()
	})
}

func TestCountersAndHandler(t *testing.T) {
	m := NewMetricsManager("virtucasa")

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.FavoriteToggled(true)
	m.FavoriteToggled(true)
	m.FavoriteToggled(false)
	m.AgentReply("dropped")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FavoriteToggles.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FavoriteToggles.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AgentReplies.WithLabelValues("dropped")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "virtucasa_active_sessions 1")
}
