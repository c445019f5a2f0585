package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObserveRunExported(t *testing.T) {
	Init()
	Init()

	ObserveRun("merge", errors.New("boom"), 10*time.Millisecond)
	ObserveRun("convert", nil, time.Millisecond)
	AddPagesComposited(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `pdftools_runs_total{result="error",tool="merge"}`)
	assert.Contains(t, body, `pdftools_runs_total{result="success",tool="convert"}`)
	assert.Contains(t, body, "pdftools_run_duration_seconds_bucket")
	assert.Contains(t, body, "pdftools_pages_composited_total")
}
