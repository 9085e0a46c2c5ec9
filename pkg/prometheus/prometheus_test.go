package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questx-lab/focus/internal/common"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	common.PromCounters[common.FinalizedDayTotal].WithLabelValues("no_spin").Inc()

	rec := httptest.NewRecorder()
	NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `ledger_finalized_days_total{outcome="no_spin"}`)
}
