package api

import (
	"net/http"
	"time"

	"github.com/cassiecay/portfolio-ops/internal/pkg/httputil"
)

var startTime = time.Now()

// HandleHealth reports liveness. Upstream dependencies are not probed
// here; a failed dependency surfaces per-request as a 500.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{
		"status": "ok",
		"uptime": time.Since(startTime).Round(time.Second).String(),
	})
}
