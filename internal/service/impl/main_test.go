package impl

import (
	"os"
	"testing"

	"blogapi/internal/observability/metrics"
)

// The service impls increment curried metric vecs; the service label must be
// bound before any of them runs, exactly as main does at startup.
func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}
